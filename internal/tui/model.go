package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/docseekhq/docseek/internal/models"
	"github.com/docseekhq/docseek/internal/theme"
)

// DefaultConversationID names the conversation used until /new or
// /switch changes it.
const DefaultConversationID = "default"

// State represents the shell state machine. Exactly one chat turn is
// in flight at a time: input is disabled while waiting.
type State int

const (
	StateInput State = iota
	StateWaiting
)

// Config holds shell configuration.
type Config struct {
	ModelName  string
	Theme      string
	NoColor    bool
	NoMarkdown bool
}

// Model is the bubbletea model for the interactive shell.
type Model struct {
	config Config
	svc    Service
	keys   KeyMap

	theme    theme.Theme
	styles   Styles
	renderer *Renderer

	state          State
	conversationID string

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool

	transcript string
	quitting   bool
}

// NewModel creates the shell model. The configured theme must already
// be validated by the caller; an unknown name falls back to default.
func NewModel(config Config, svc Service) Model {
	th, err := theme.Get(config.Theme)
	if err != nil {
		th = theme.Default()
	}
	styles := ThemedStyles(th)
	if config.NoColor {
		styles = NoColorStyles()
	}

	ta := textarea.New()
	ta.Placeholder = "Type a query or /help for commands..."
	ta.Prompt = "❯ "
	ta.CharLimit = 0
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		config:         config,
		svc:            svc,
		keys:           DefaultKeyMap(),
		theme:          th,
		styles:         styles,
		state:          StateInput,
		conversationID: DefaultConversationID,
		textarea:       ta,
		spinner:        sp,
	}
	m.renderer = NewRenderer(0, config.NoColor, config.NoMarkdown, styles)
	m.transcript = m.styles.Banner.Render(th.Banner) + "\n" +
		m.renderer.RenderInfo("Agent is ready! Type a query or /help for commands.")
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state == StateWaiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case ChatResultMsg:
		return m.handleChatResult(msg)
	}

	return m.updateComponents(msg)
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	inputHeight := 3 // separator + textarea + status bar
	if !m.ready {
		m.viewport = viewport.New(msg.Width, msg.Height-inputHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - inputHeight
	}
	m.textarea.SetWidth(msg.Width - 2)
	m.renderer = NewRenderer(msg.Width, m.config.NoColor, m.config.NoMarkdown, m.styles)
	m.viewport.SetContent(m.transcript)
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		if m.state != StateInput {
			return m, nil
		}
		line := strings.TrimSpace(m.textarea.Value())
		m.textarea.Reset()
		if line == "" {
			return m, nil
		}
		return m.handleLine(line)
	}

	return m.updateComponents(msg)
}

// handleLine routes one submitted line: slash command or chat turn.
func (m Model) handleLine(line string) (tea.Model, tea.Cmd) {
	cmd := ParseCommand(line)

	switch cmd.Kind {
	case CmdNone:
		m.append(m.renderer.RenderUserMessage(line))
		m.state = StateWaiting
		m.textarea.Blur()
		return m, tea.Batch(m.spinner.Tick, chatCmd(m.svc, line, m.conversationID))

	case CmdHelp:
		m.append(m.renderer.RenderHelp())

	case CmdExit:
		m.quitting = true
		return m, tea.Quit

	case CmdClear:
		m.svc.ClearHistory(m.conversationID)
		m.append(m.renderer.RenderInfo("Current conversation history cleared."))

	case CmdHistory:
		m.append(m.renderer.RenderHistoryTable(m.svc.Conversations()))

	case CmdTheme:
		return m.handleTheme(cmd.Arg)

	case CmdNew:
		m.conversationID = "conv-" + uuid.New().String()[:8]
		m.append(m.renderer.RenderInfo(fmt.Sprintf("Started conversation %s.", m.conversationID)))

	case CmdSwitch:
		if cmd.Arg == "" {
			m.append(m.renderer.RenderWarning("Usage: /switch <conversation-id>"))
			break
		}
		m.conversationID = cmd.Arg
		m.append(m.renderer.RenderInfo(fmt.Sprintf("Switched to conversation %s.", cmd.Arg)))

	case CmdUnknown:
		m.append(m.renderer.RenderWarning(fmt.Sprintf("Unknown command: %s", cmd.Arg)))
	}

	return m, nil
}

// handleTheme switches the presentation theme. Unknown names are a
// non-fatal message; no other state changes.
func (m Model) handleTheme(name string) (tea.Model, tea.Cmd) {
	if name == "" {
		m.append(m.renderer.RenderInfo(fmt.Sprintf("Available themes: %s. Usage: /theme <name>",
			strings.Join(theme.Names(), ", "))))
		return m, nil
	}

	th, err := theme.Get(name)
	if err != nil {
		m.append(m.renderer.RenderWarning(fmt.Sprintf("Theme %q not found.", name)))
		return m, nil
	}

	m.theme = th
	if !m.config.NoColor {
		m.styles = ThemedStyles(th)
	}
	m.renderer = NewRenderer(m.width, m.config.NoColor, m.config.NoMarkdown, m.styles)
	m.append(m.styles.Banner.Render(th.Banner) + "\n" +
		m.renderer.RenderInfo(fmt.Sprintf("Theme switched to %s.", th.Name)))
	return m, nil
}

func (m Model) handleChatResult(msg ChatResultMsg) (tea.Model, tea.Cmd) {
	if msg.Result.Outcome == models.OutcomeComplete {
		m.append(m.renderer.RenderAssistantMessage(msg.Result.Text))
	} else {
		m.append(m.renderer.RenderError(msg.Result.Detail))
	}
	m.state = StateInput
	m.textarea.Focus()
	return m, textarea.Blink
}

// append adds a block to the transcript and scrolls to the bottom.
func (m *Model) append(block string) {
	m.transcript += block
	if m.ready {
		m.viewport.SetContent(m.transcript)
		m.viewport.GotoBottom()
	}
}

// updateComponents forwards messages to the sub-models. Key presses go
// to exactly one component: scroll keys to the viewport, the rest to
// the textarea when input is active.
func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.ScrollUp), key.Matches(keyMsg, m.keys.ScrollDn),
			key.Matches(keyMsg, m.keys.PageUp), key.Matches(keyMsg, m.keys.PageDown):
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if m.state == StateInput {
			m.textarea, cmd = m.textarea.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if !m.ready {
		return "Loading..."
	}

	var input string
	if m.state == StateWaiting {
		input = m.spinner.View() + " " + m.styles.SpinnerMessage.Render("Assistant is thinking...")
	} else {
		input = m.textarea.View()
	}

	separator := m.styles.Separator.Render(strings.Repeat("─", max(m.width, 1)))
	status := m.styles.StatusBar.Render(fmt.Sprintf("%s · %s · conversation: %s",
		m.theme.Name, m.config.ModelName, m.conversationID))

	return m.viewport.View() + "\n" + separator + "\n" + input + "\n" + status
}
