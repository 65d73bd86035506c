// RunShellCommandTool implementation.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/openai/openai-go"

	"github.com/husw725/gpt-cli/pkg/logger"
)

// RunShellCommandTool implements the run_shell_command tool.
type RunShellCommandTool struct {
	tc Context
}

func (t *RunShellCommandTool) Name() string {
	return "run_shell_command"
}

func (t *RunShellCommandTool) Definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "run_shell_command",
			Description: openai.String("Run a shell command on the user's local machine."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"command": map[string]any{
						"type":        "string",
						"description": "The bash command to execute.",
					},
				},
				"required": []string{"command"},
			},
		},
	}
}

// Execute runs the command in a shell and returns combined output. A
// non-zero exit status is not itself failure text; stderr surfaces under a
// STDERR: marker when non-empty.
func (t *RunShellCommandTool) Execute(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", err
	}
	if strings.TrimSpace(args.Command) == "" {
		return "", errors.New("command is required")
	}
	logger.Debugf(t.tc.Verbose, t.tc.Logger, "run_shell_command: %s", args.Command)

	cmd := exec.CommandContext(ctx, "bash", "-c", args.Command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return fmt.Sprintf("Error executing command: %v", err), nil
		}
		// Exit errors fall through: the output (and stderr marker) tell the
		// model what happened.
	}

	output := stdout.String()
	if stderr.Len() > 0 {
		output += "\nSTDERR:\n" + stderr.String()
	}
	if strings.TrimSpace(output) == "" {
		return "Command executed successfully with no output.", nil
	}
	return output, nil
}
