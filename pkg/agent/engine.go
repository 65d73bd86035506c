// Package agent contains the turn engine and the interactive session driver.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/husw725/gpt-cli/pkg/logger"
	"github.com/husw725/gpt-cli/pkg/tools"
)

// maxToolResultChars caps the size of a single tool result fed back into the
// model's context.
const maxToolResultChars = 10000

// truncationMarker is appended to tool results cut at maxToolResultChars.
const truncationMarker = "... [Truncated]"

// Completer performs one chat completion request. The production
// implementation wraps the OpenAI client; tests script it.
type Completer interface {
	Complete(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletionMessage, error)
}

// OpenAICompleter adapts an openai.Client to the Completer interface.
type OpenAICompleter struct {
	Client openai.Client
}

func (c OpenAICompleter) Complete(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletionMessage, error) {
	completion, err := c.Client.Chat.Completions.New(ctx, params)
	if err != nil {
		return openai.ChatCompletionMessage{}, err
	}
	if len(completion.Choices) == 0 {
		return openai.ChatCompletionMessage{}, errors.New("empty completion choices")
	}
	return completion.Choices[0].Message, nil
}

// Hooks surface engine activity to the terminal as it happens. Nil fields
// are skipped.
type Hooks struct {
	// AssistantText fires for every non-empty assistant message, including
	// ones that also carry tool calls.
	AssistantText func(text string)
	// ToolCall fires before each tool invocation.
	ToolCall func(name, arguments string)
}

// Engine runs the model/tool loop for one turn at a time. It owns no
// conversation state; the caller passes the full history in and receives the
// extended history back.
type Engine struct {
	completer Completer
	registry  *tools.Registry
	model     openai.ChatModel
	hooks     Hooks

	// maxToolRounds bounds model/tool round trips within one turn. Zero
	// means unbounded: the model alone decides when the turn ends. This is
	// deliberate; full tool-use autonomy is traded for the possibility of a
	// runaway loop.
	maxToolRounds int

	logger  logger.Logger
	verbose bool
}

// EngineOption configures optional Engine behavior.
type EngineOption func(*Engine)

// WithHooks installs rendering hooks.
func WithHooks(h Hooks) EngineOption {
	return func(e *Engine) { e.hooks = h }
}

// WithMaxToolRounds sets an optional ceiling on model/tool round trips per
// turn. Zero (the default) keeps the loop unbounded.
func WithMaxToolRounds(n int) EngineOption {
	return func(e *Engine) { e.maxToolRounds = n }
}

// WithLogger injects a logger used for verbose tracing.
func WithLogger(l logger.Logger, verbose bool) EngineOption {
	return func(e *Engine) {
		e.logger = l
		e.verbose = verbose
	}
}

// NewEngine builds an Engine around a completer and tool registry.
func NewEngine(completer Completer, registry *tools.Registry, model openai.ChatModel, opts ...EngineOption) *Engine {
	e := &Engine{
		completer: completer,
		registry:  registry,
		model:     model,
		logger:    logger.NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// RunTurn executes one turn: it alternates model calls and tool dispatch
// until the model replies without tool calls. The returned slice is history
// plus everything appended during the turn; on error it contains whatever
// was appended before the failure, so the caller's conversation state stays
// append-only and intact.
func (e *Engine) RunTurn(ctx context.Context, history []openai.ChatCompletionMessageParamUnion) ([]openai.ChatCompletionMessageParamUnion, error) {
	current := history

	for round := 0; ; round++ {
		if e.maxToolRounds > 0 && round >= e.maxToolRounds {
			return current, fmt.Errorf("tool round limit (%d) reached before the model produced a final response", e.maxToolRounds)
		}
		logger.Debugf(e.verbose, e.logger, "turn round %d: sending %d messages", round+1, len(current))

		message, err := e.completer.Complete(ctx, openai.ChatCompletionNewParams{
			Model:    e.model,
			Messages: current,
			Tools:    e.registry.Definitions(),
		})
		if err != nil {
			return current, err
		}

		current = append(current, message.ToParam())
		if message.Content != "" && e.hooks.AssistantText != nil {
			e.hooks.AssistantText(message.Content)
		}

		if len(message.ToolCalls) == 0 {
			logger.Debugf(e.verbose, e.logger, "turn done after %d round(s)", round+1)
			return current, nil
		}

		logger.Debugf(e.verbose, e.logger, "turn round %d: %d tool call(s)", round+1, len(message.ToolCalls))
		for _, call := range message.ToolCalls {
			result := e.dispatch(ctx, call)
			current = append(current, openai.ToolMessage(truncateResult(result), call.ID))
		}
	}
}

// dispatch runs a single tool call and always produces result text: argument
// decode failures, unknown tools, tool validation errors, and panics are all
// contained here so a failing tool degrades the conversation instead of
// ending it.
func (e *Engine) dispatch(ctx context.Context, call openai.ChatCompletionMessageToolCall) (result string) {
	name := call.Function.Name
	defer func() {
		if r := recover(); r != nil {
			result = fmt.Sprintf("Error executing tool '%s': %v", name, r)
		}
	}()

	var decoded map[string]any
	if err := json.Unmarshal([]byte(call.Function.Arguments), &decoded); err != nil {
		return fmt.Sprintf("Error: Invalid arguments for tool '%s'.", name)
	}

	tool, ok := e.registry.Resolve(name)
	if !ok {
		return fmt.Sprintf("Error: Tool '%s' not found.", name)
	}

	if e.hooks.ToolCall != nil {
		e.hooks.ToolCall(name, call.Function.Arguments)
	}

	output, err := tool.Execute(ctx, json.RawMessage(call.Function.Arguments))
	if err != nil {
		return fmt.Sprintf("Error executing tool '%s': %v", name, err)
	}
	return output
}

// truncateResult bounds the text flowing back into the model's context.
// Idempotent: re-truncating keeps the same first maxToolResultChars bytes
// and marker.
func truncateResult(s string) string {
	if len(s) <= maxToolResultChars {
		return s
	}
	return s[:maxToolResultChars] + truncationMarker
}
