// CreateSkillTool implementation.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/husw725/gpt-cli/pkg/logger"
)

// CreateSkillTool implements the create_skill tool.
type CreateSkillTool struct {
	tc Context
}

func (t *CreateSkillTool) Name() string {
	return "create_skill"
}

func (t *CreateSkillTool) Definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "create_skill",
			Description: openai.String("Saves a new skill for the AI. Use this when the user asks you to remember something, learn a new workflow, or create a new capability for yourself."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":        "string",
						"description": "A short, descriptive name for the skill.",
					},
					"description": map[string]any{
						"type":        "string",
						"description": "A one-sentence explanation of what the skill does.",
					},
					"instructions": map[string]any{
						"type":        "string",
						"description": "Detailed, step-by-step instructions for the AI to follow.",
					},
				},
				"required": []string{"name", "description", "instructions"},
			},
		},
	}
}

func (t *CreateSkillTool) Execute(_ context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Name         string `json:"name"`
		Description  string `json:"description"`
		Instructions string `json:"instructions"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", err
	}
	if args.Name == "" {
		return "", errors.New("name is required")
	}
	logger.Debugf(t.tc.Verbose, t.tc.Logger, "create_skill: %s", args.Name)

	if err := t.tc.Skills.Save(args.Name, args.Description, args.Instructions); err != nil {
		return fmt.Sprintf("Error creating skill: %v", err), nil
	}
	return fmt.Sprintf("Skill '%s' created successfully. It is now available for use.", args.Name), nil
}
