// Package tools defines the closed set of local capabilities the model can
// invoke and the registry that advertises them.
package tools

import (
	"context"
	"encoding/json"

	"github.com/openai/openai-go"

	"github.com/husw725/gpt-cli/pkg/logger"
	"github.com/husw725/gpt-cli/pkg/search"
	"github.com/husw725/gpt-cli/pkg/skills"
)

// Tool is one model-callable capability. Execute decodes its own typed
// argument record from raw JSON and validates required fields before any
// side effect; a returned error always means the arguments were unusable,
// never that the side effect failed. Side-effect failures are encoded into
// the returned text so the model can see them and recover.
type Tool interface {
	Name() string
	Definition() openai.ChatCompletionToolParam
	Execute(ctx context.Context, raw json.RawMessage) (string, error)
}

// Context carries shared dependencies into the tool implementations.
type Context struct {
	Skills  *skills.Store
	Search  *search.Client
	Verbose bool
	Logger  logger.Logger
}

// Registry holds the tool set keyed by name and the descriptor list
// advertised to the model.
type Registry struct {
	tools  map[string]Tool
	params []openai.ChatCompletionToolParam
}

// New builds a Registry with all built-in tools.
func New(tc Context) *Registry {
	r := &Registry{tools: make(map[string]Tool)}

	r.register(&RunShellCommandTool{tc: tc})
	r.register(&ReadFileTool{tc: tc})
	r.register(&WriteFileTool{tc: tc})
	r.register(&ListDirectoryTool{tc: tc})
	r.register(&WebSearchTool{tc: tc})
	r.register(&CreateSkillTool{tc: tc})

	return r
}

func (r *Registry) register(tool Tool) {
	r.tools[tool.Name()] = tool
	r.params = append(r.params, tool.Definition())
}

// Definitions returns the descriptors advertised on every model call.
func (r *Registry) Definitions() []openai.ChatCompletionToolParam {
	return r.params
}

// Resolve looks up a tool by name.
func (r *Registry) Resolve(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}
