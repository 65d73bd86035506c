// WriteFileTool implementation.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openai/openai-go"

	"github.com/husw725/gpt-cli/pkg/logger"
)

// WriteFileTool implements the write_file tool.
type WriteFileTool struct {
	tc Context
}

func (t *WriteFileTool) Name() string {
	return "write_file"
}

func (t *WriteFileTool) Definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "write_file",
			Description: openai.String("Writes the complete content to a file. Overwrites existing files."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"file_path": map[string]any{
						"type":        "string",
						"description": "Path to the file.",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "The complete content to write.",
					},
				},
				"required": []string{"file_path", "content"},
			},
		},
	}
}

func (t *WriteFileTool) Execute(_ context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		FilePath string  `json:"file_path"`
		Content  *string `json:"content"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", err
	}
	if args.FilePath == "" {
		return "", errors.New("file_path is required")
	}
	if args.Content == nil {
		return "", errors.New("content is required")
	}
	logger.Debugf(t.tc.Verbose, t.tc.Logger, "write_file: %s (%d bytes)", args.FilePath, len(*args.Content))

	if dir := filepath.Dir(args.FilePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Sprintf("Error writing file: %v", err), nil
		}
	}
	if err := os.WriteFile(args.FilePath, []byte(*args.Content), 0o644); err != nil {
		return fmt.Sprintf("Error writing file: %v", err), nil
	}
	return fmt.Sprintf("Successfully wrote to %s", args.FilePath), nil
}
