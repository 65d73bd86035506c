// Package console renders the chat session to the terminal.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Console writes styled session output. Assistant text is rendered as
// markdown; when the renderer is unavailable the raw text is printed
// instead.
type Console struct {
	out      io.Writer
	renderer *glamour.TermRenderer

	userStyle lipgloss.Style
	dimStyle  lipgloss.Style
	errStyle  lipgloss.Style
	boldStyle lipgloss.Style
}

// New builds a Console writing to out.
func New(out io.Writer) *Console {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		renderer = nil
	}
	return &Console{
		out:       out,
		renderer:  renderer,
		userStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		dimStyle:  lipgloss.NewStyle().Faint(true),
		errStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		boldStyle: lipgloss.NewStyle().Bold(true),
	}
}

// PromptUser prints the input prompt.
func (c *Console) PromptUser() {
	fmt.Fprintf(c.out, "\n%s ", c.userStyle.Render("You:"))
}

// EchoUser echoes a user message supplied outside the prompt.
func (c *Console) EchoUser(text string) {
	fmt.Fprintf(c.out, "\n%s %s\n", c.userStyle.Render("You:"), text)
}

// ShowAssistant renders assistant markdown.
func (c *Console) ShowAssistant(text string) {
	if c.renderer != nil {
		if rendered, err := c.renderer.Render(text); err == nil {
			fmt.Fprint(c.out, rendered)
			return
		}
	}
	fmt.Fprintln(c.out, strings.TrimRight(text, "\n"))
}

// ShowToolCall prints a dim trace of a tool invocation.
func (c *Console) ShowToolCall(name, arguments string) {
	fmt.Fprintln(c.out, c.dimStyle.Render(fmt.Sprintf("Running tool: %s with %s", name, arguments)))
}

// ShowError reports a failed turn.
func (c *Console) ShowError(err error) {
	fmt.Fprintln(c.out, c.errStyle.Render(fmt.Sprintf("Error: %v", err)))
}

// ShowFarewell prints the goodbye line.
func (c *Console) ShowFarewell() {
	fmt.Fprintf(c.out, "\n%s\n", c.boldStyle.Render("Goodbye!"))
}

// Println writes a plain line, used by the credential prompt.
func (c *Console) Println(text string) {
	fmt.Fprintln(c.out, text)
}
