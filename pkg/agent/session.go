package agent

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/openai/openai-go"
)

// systemPromptTemplate is the fixed instructional prefix of the system
// message; the skill store's loaded block is appended to it at session start.
const systemPromptTemplate = `You are gpt-cli, a fully autonomous software engineering agent.
CRITICAL MANDATES:
1. NEVER ASK THE USER TO DO SOMETHING YOU CAN DO YOURSELF. If a file path is fuzzy, use ` + "`run_shell_command`" + ` with ` + "`find . -iname \"*fuzzy*\"`" + ` or ` + "`grep`" + ` to locate it autonomously. Do not ask the user for the path.
2. ZERO-CLICK EXECUTION: When writing a script or fixing a bug, YOU MUST execute it yourself using ` + "`run_shell_command`" + `. NEVER just show the code and ask the user to run it or modify it. Write it, run it, and present the final output.
3. ITERATIVE FIXING: If an error occurs during your tool execution (e.g., script fails, file not found), YOU MUST autonomously diagnose, fix the script/command, and re-run it until it succeeds. DO NOT stop and ask the user to fix it.
4. You have tools to read/write files, list directories, run shell commands, search the web, and create skills. Use them relentlessly to achieve the user's goal without manual intervention.
`

// UI is the terminal surface the session renders through.
type UI interface {
	// PromptUser prints the input prompt before a read.
	PromptUser()
	// EchoUser echoes a user message that did not come from the prompt
	// (the initial prompt argument).
	EchoUser(text string)
	// ShowAssistant renders an assistant message.
	ShowAssistant(text string)
	// ShowToolCall renders a tool invocation trace.
	ShowToolCall(name, arguments string)
	// ShowError reports a failed turn.
	ShowError(err error)
	// ShowFarewell prints the goodbye line.
	ShowFarewell()
}

// Session owns the conversation for the lifetime of the process: an
// append-only message log seeded with the system message. It reads user
// input, runs turns, and renders through the UI.
type Session struct {
	engine  *Engine
	ui      UI
	in      io.Reader
	history []openai.ChatCompletionMessageParamUnion
}

// NewSession builds a session whose system message is the instructional
// template plus the skill store's loaded text.
func NewSession(engine *Engine, ui UI, in io.Reader, skillsText string) *Session {
	return &Session{
		engine: engine,
		ui:     ui,
		in:     in,
		history: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPromptTemplate + skillsText),
		},
	}
}

// History returns the conversation so far.
func (s *Session) History() []openai.ChatCompletionMessageParamUnion {
	return s.history
}

// Run drives the session: an optional initial prompt runs one turn first,
// then the interactive loop reads lines until an exit command or
// end-of-input. Both paths finish with a farewell and no error for the
// normal endings.
func (s *Session) Run(ctx context.Context, initialPrompt string) error {
	if prompt := strings.TrimSpace(initialPrompt); prompt != "" {
		s.ui.EchoUser(prompt)
		s.runTurn(ctx, prompt)
	}

	scanner := bufio.NewScanner(s.in)
	for {
		s.ui.PromptUser()
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if isExitCommand(input) {
			break
		}
		s.runTurn(ctx, input)
	}

	s.ui.ShowFarewell()
	return scanner.Err()
}

// runTurn appends the user message and runs one turn. A transport failure
// ends the turn only: the error is reported, everything appended before the
// failure stays in the history, and the session continues.
func (s *Session) runTurn(ctx context.Context, input string) {
	s.history = append(s.history, openai.UserMessage(input))
	updated, err := s.engine.RunTurn(ctx, s.history)
	s.history = updated
	if err != nil {
		s.ui.ShowError(err)
	}
}

// isExitCommand reports whether input is one of the session-ending words.
func isExitCommand(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit", "q":
		return true
	}
	return false
}
