// ReadFileTool implementation.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/openai/openai-go"

	"github.com/husw725/gpt-cli/pkg/logger"
)

// ReadFileTool implements the read_file tool.
type ReadFileTool struct {
	tc Context
}

func (t *ReadFileTool) Name() string {
	return "read_file"
}

func (t *ReadFileTool) Definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "read_file",
			Description: openai.String("Read the contents of a local file."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"file_path": map[string]any{
						"type":        "string",
						"description": "Absolute or relative path to the file.",
					},
				},
				"required": []string{"file_path"},
			},
		},
	}
}

func (t *ReadFileTool) Execute(_ context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		FilePath string `json:"file_path"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", err
	}
	if args.FilePath == "" {
		return "", errors.New("file_path is required")
	}
	logger.Debugf(t.tc.Verbose, t.tc.Logger, "read_file: %s", args.FilePath)

	data, err := os.ReadFile(args.FilePath)
	if err != nil {
		return fmt.Sprintf("Error reading file: %v", err), nil
	}
	return string(data), nil
}
