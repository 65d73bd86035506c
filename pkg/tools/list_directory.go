// ListDirectoryTool implementation.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/openai/openai-go"

	"github.com/husw725/gpt-cli/pkg/logger"
)

// ListDirectoryTool implements the list_directory tool.
type ListDirectoryTool struct {
	tc Context
}

func (t *ListDirectoryTool) Name() string {
	return "list_directory"
}

func (t *ListDirectoryTool) Definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "list_directory",
			Description: openai.String("Lists the names of files and subdirectories directly within a specified directory path."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"dir_path": map[string]any{
						"type":        "string",
						"description": "The path to the directory to list.",
					},
				},
				"required": []string{"dir_path"},
			},
		},
	}
}

func (t *ListDirectoryTool) Execute(_ context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		DirPath string `json:"dir_path"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", err
	}
	if args.DirPath == "" {
		return "", errors.New("dir_path is required")
	}
	logger.Debugf(t.tc.Verbose, t.tc.Logger, "list_directory: %s", args.DirPath)

	info, err := os.Stat(args.DirPath)
	if err != nil || !info.IsDir() {
		return fmt.Sprintf("Error: %s is not a valid directory.", args.DirPath), nil
	}

	entries, err := os.ReadDir(args.DirPath)
	if err != nil {
		return fmt.Sprintf("Error listing directory: %v", err), nil
	}
	if len(entries) == 0 {
		return "(Empty directory)", nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return strings.Join(names, "\n"), nil
}
