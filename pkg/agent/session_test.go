// Tests for the interactive session driver.
package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go"
)

// recordingUI captures render calls for assertions.
type recordingUI struct {
	prompts   int
	echoed    []string
	assistant []string
	toolCalls []string
	errors    []error
	farewells int
}

func (u *recordingUI) PromptUser()               { u.prompts++ }
func (u *recordingUI) EchoUser(text string)      { u.echoed = append(u.echoed, text) }
func (u *recordingUI) ShowAssistant(text string) { u.assistant = append(u.assistant, text) }
func (u *recordingUI) ShowToolCall(n, a string)  { u.toolCalls = append(u.toolCalls, n+" "+a) }
func (u *recordingUI) ShowError(err error)       { u.errors = append(u.errors, err) }
func (u *recordingUI) ShowFarewell()             { u.farewells++ }

func newTestSession(t *testing.T, completer Completer, input, skillsText string) (*Session, *recordingUI) {
	t.Helper()
	ui := &recordingUI{}
	engine := NewEngine(completer, newTestRegistry(t), "test-model", WithHooks(Hooks{
		AssistantText: ui.ShowAssistant,
		ToolCall:      ui.ShowToolCall,
	}))
	return NewSession(engine, ui, strings.NewReader(input), skillsText), ui
}

func TestSessionEndsOnExitCommands(t *testing.T) {
	for _, cmd := range []string{"exit", "quit", "q", "EXIT", "Quit"} {
		completer := &scriptedCompleter{}
		session, ui := newTestSession(t, completer, cmd+"\n", "")

		if err := session.Run(context.Background(), ""); err != nil {
			t.Fatalf("%s: Run returned error: %v", cmd, err)
		}
		if completer.calls != 0 {
			t.Fatalf("%s: exit command should not run a turn", cmd)
		}
		if ui.farewells != 1 {
			t.Fatalf("%s: expected farewell, got %d", cmd, ui.farewells)
		}
	}
}

func TestSessionEndsOnEndOfInput(t *testing.T) {
	completer := &scriptedCompleter{}
	session, ui := newTestSession(t, completer, "", "")

	if err := session.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if ui.farewells != 1 {
		t.Fatal("expected farewell on end-of-input")
	}
}

func TestSessionSkipsEmptyInput(t *testing.T) {
	completer := &scriptedCompleter{}
	session, ui := newTestSession(t, completer, "\n   \nq\n", "")

	if err := session.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if completer.calls != 0 {
		t.Fatal("blank lines should not run turns")
	}
	if ui.prompts != 3 {
		t.Fatalf("expected 3 prompts (blank, blank, q), got %d", ui.prompts)
	}
}

func TestSessionRunsInitialPromptBeforeInteractive(t *testing.T) {
	completer := &scriptedCompleter{
		responses: []openai.ChatCompletionMessage{{Content: "hi there"}},
	}
	session, ui := newTestSession(t, completer, "q\n", "")

	if err := session.Run(context.Background(), "hello"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if completer.calls != 1 {
		t.Fatalf("expected 1 turn for the initial prompt, got %d", completer.calls)
	}
	if len(ui.echoed) != 1 || ui.echoed[0] != "hello" {
		t.Fatalf("initial prompt not echoed: %v", ui.echoed)
	}
	if len(ui.assistant) != 1 || ui.assistant[0] != "hi there" {
		t.Fatalf("assistant reply not rendered: %v", ui.assistant)
	}
	// system + user + assistant
	if got := len(session.History()); got != 3 {
		t.Fatalf("unexpected history length %d", got)
	}
}

func TestSessionContinuesAfterTransportError(t *testing.T) {
	completer := &scriptedCompleter{err: errors.New("gateway timeout")}
	session, ui := newTestSession(t, completer, "first\nsecond\nq\n", "")

	if err := session.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(ui.errors) != 2 {
		t.Fatalf("expected 2 reported errors, got %d", len(ui.errors))
	}
	if ui.farewells != 1 {
		t.Fatal("session should still end with a farewell")
	}
	// system + both user messages: failed turns keep their user message,
	// nothing is removed.
	if got := len(session.History()); got != 3 {
		t.Fatalf("unexpected history length %d", got)
	}
}

func TestSessionSystemPromptIncludesSkills(t *testing.T) {
	skillsText := "\n\n--- AVAILABLE SKILLS ---\n\n<skill name='deploy_helper'>\ndoc\n</skill>\n"
	session, _ := newTestSession(t, &scriptedCompleter{}, "q\n", skillsText)

	dm := decodeMessage(t, session.History()[0])
	if dm.Role != "system" {
		t.Fatalf("expected system message first, got %q", dm.Role)
	}
	content := contentText(t, dm)
	if !strings.Contains(content, "--- AVAILABLE SKILLS ---") {
		t.Fatal("system prompt missing skills block")
	}
	if !strings.Contains(content, "gpt-cli, a fully autonomous software engineering agent") {
		t.Fatal("system prompt missing instructional template")
	}
}

func TestIsExitCommand(t *testing.T) {
	for _, in := range []string{"exit", "QUIT", "q", "Q"} {
		if !isExitCommand(in) {
			t.Fatalf("%q should be an exit command", in)
		}
	}
	for _, in := range []string{"quit now", "exi", "hello"} {
		if isExitCommand(in) {
			t.Fatalf("%q should not be an exit command", in)
		}
	}
}
