// WebSearchTool implementation.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"

	"github.com/husw725/gpt-cli/pkg/logger"
)

// maxSearchResults bounds how many hits flow back into the conversation.
const maxSearchResults = 5

// WebSearchTool implements the web_search tool.
type WebSearchTool struct {
	tc Context
}

func (t *WebSearchTool) Name() string {
	return "web_search"
}

func (t *WebSearchTool) Definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "web_search",
			Description: openai.String("Search the web for information."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query.",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

func (t *WebSearchTool) Execute(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", err
	}
	if strings.TrimSpace(args.Query) == "" {
		return "", errors.New("query is required")
	}
	logger.Debugf(t.tc.Verbose, t.tc.Logger, "web_search: %s", args.Query)

	results, err := t.tc.Search.Search(ctx, args.Query, maxSearchResults)
	if err != nil {
		return fmt.Sprintf("Error searching web: %v", err), nil
	}
	if len(results) == 0 {
		return "No results found.", nil
	}

	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("Title: %s\nURL: %s\nBody: %s", r.Title, r.URL, r.Snippet))
	}
	return strings.Join(blocks, "\n\n"), nil
}
