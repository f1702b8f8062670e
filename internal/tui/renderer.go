// Package tui implements the interactive terminal shell for docseek.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/docseekhq/docseek/internal/models"
)

// Renderer formats transcript blocks: user echoes, markdown answers,
// error panels, and the /history table.
type Renderer struct {
	width      int
	noMarkdown bool
	styles     Styles
	mdRenderer *glamour.TermRenderer
}

// NewRenderer creates a renderer for the given width. Width <= 0 falls
// back to the terminal width, then 80.
func NewRenderer(width int, noColor, noMarkdown bool, styles Styles) *Renderer {
	r := &Renderer{
		width:      width,
		noMarkdown: noMarkdown,
		styles:     styles,
	}
	if !noMarkdown {
		w := width
		if w <= 0 {
			w = 80
			if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
				w = tw
			}
		}
		style := "dark"
		if noColor {
			style = "notty"
		}
		md, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(w),
		)
		if err == nil {
			r.mdRenderer = md
		}
	}
	return r
}

// RenderUserMessage echoes the user's input.
func (r *Renderer) RenderUserMessage(content string) string {
	return r.styles.PromptLabel.Render("> ") + r.styles.UserMessage.Render(content) + "\n"
}

// RenderAssistantMessage renders the answer, with markdown unless
// disabled.
func (r *Renderer) RenderAssistantMessage(content string) string {
	label := r.styles.AssistantLabel.Render("Assistant:")
	if r.mdRenderer != nil {
		rendered, err := r.mdRenderer.Render(content)
		if err == nil {
			return label + rendered
		}
	}
	return label + "\n" + content + "\n\n"
}

// RenderError renders a failed turn as an error block.
func (r *Renderer) RenderError(detail string) string {
	return r.styles.ErrorBlock.Render("Error: "+detail) + "\n"
}

// RenderInfo renders command feedback.
func (r *Renderer) RenderInfo(text string) string {
	return r.styles.Info.Render(text) + "\n"
}

// RenderWarning renders a non-fatal user-facing warning.
func (r *Renderer) RenderWarning(text string) string {
	return r.styles.Warning.Render(text) + "\n"
}

// RenderHistoryTable renders conversation summaries for /history.
func (r *Renderer) RenderHistoryTable(convs []models.ConversationSummary) string {
	if len(convs) == 0 {
		return r.RenderWarning("No conversation history found.")
	}

	idWidth := len("ID")
	for _, c := range convs {
		if len(c.ID) > idWidth {
			idWidth = len(c.ID)
		}
	}

	var b strings.Builder
	b.WriteString(r.styles.TableHeader.Render(fmt.Sprintf("%-*s  %8s  %s", idWidth, "ID", "Messages", "Last Message")))
	b.WriteString("\n")
	for _, c := range convs {
		b.WriteString(r.styles.TableCell.Render(fmt.Sprintf("%-*s  %8d  %s", idWidth, c.ID, c.MessageCount, c.LastMessage)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHelp renders the /help summary.
func (r *Renderer) RenderHelp() string {
	help := `Commands:
  /help           Show this help message
  /exit           Exit the application
  /clear          Clear the current conversation history
  /history        Show a summary of all conversations
  /theme <name>   Switch the visual theme
  /new            Start a fresh conversation
  /switch <id>    Switch to another conversation

Anything else is sent to the assistant.`
	return r.styles.Info.Render(help) + "\n"
}
