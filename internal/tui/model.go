package tui

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/llmchat/internal/chat"
	"github.com/diogo/llmchat/internal/models"
	"github.com/diogo/llmchat/internal/render"
)

// Message types for the TUI
type (
	// replyChunkMsg carries the reply accumulated so far
	replyChunkMsg struct {
		text string
	}
	replyDoneMsg struct{}
	replyErrMsg  struct {
		err error
	}
)

// ChatSession defines the session operations needed by the TUI
type ChatSession interface {
	Model() models.ModelID
	Models() []models.ModelID
	ModelDescription(id models.ModelID) string
	Prompt() string
	Prompts() []string
	PromptIndex() int
	Transcript() []models.Turn
	LastReply() (string, bool)
	SelectModel(id models.ModelID) error
	SelectPromptIndex(i int) error
	Clear()
	Send(ctx context.Context, message string) iter.Seq2[string, error]
}

var _ ChatSession = (*chat.Session)(nil)

// selectorKind tells which overlay is open
type selectorKind int

const (
	selectingNone selectorKind = iota
	selectingModel
	selectingPrompt
)

// replyStream is a reply being pulled one value per command
type replyStream struct {
	next func() (string, error, bool)
	stop func()
}

func newReplyStream(seq iter.Seq2[string, error]) *replyStream {
	next, stop := iter.Pull2(seq)
	return &replyStream{next: next, stop: stop}
}

// pull returns a command that waits for the next value of the reply
func (s *replyStream) pull() tea.Cmd {
	return func() tea.Msg {
		text, err, ok := s.next()
		switch {
		case !ok:
			return replyDoneMsg{}
		case err != nil:
			return replyErrMsg{err: err}
		default:
			return replyChunkMsg{text: text}
		}
	}
}

// Model represents the TUI state
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	session ChatSession

	renderOpts render.Options
	copyFn     func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	stream    *replyStream
	streaming bool
	chunks    int
	ready     bool
	err       error
	notice    string

	selecting selectorKind
	selector  selector

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(ctx context.Context, session ChatSession, renderOpts render.Options) Model {
	ctx, cancel := context.WithCancel(ctx)

	ta := textarea.New()
	ta.Placeholder = "Type your message here... (/model, /prompt, /clear, /copy)"
	ta.CharLimit = 8000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		ctx:        ctx,
		cancel:     cancel,
		session:    session,
		renderOpts: renderOpts.WithCompact(true),
		copyFn:     clipboard.WriteAll,
		textarea:   ta,
		spinner:    s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.selecting != selectingNone {
		return m.updateSelection(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.quit()

		case "esc":
			if !m.streaming {
				return m.quit()
			}

		case "ctrl+o":
			if !m.streaming {
				m.openModelSelector()
				return m, nil
			}

		case "ctrl+p":
			if !m.streaming {
				m.openPromptSelector()
				return m, nil
			}

		case "ctrl+y":
			m.copyLastReply()
			return m, nil

		case "ctrl+l":
			if !m.streaming {
				m.session.Clear()
				m.err = nil
				m.notice = "Conversation cleared"
				m.updateViewport()
				return m, nil
			}

		case "enter":
			if m.streaming {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			if handled, cmd := m.runCommand(input); handled {
				return m, cmd
			}
			return m, m.submit(input)
		}

	case replyChunkMsg:
		m.chunks++
		m.updateViewport()
		m.viewport.GotoBottom()
		if m.stream != nil {
			cmds = append(cmds, m.stream.pull())
		}

	case replyDoneMsg:
		m.finishStream()

	case replyErrMsg:
		m.err = msg.err
		m.finishStream()

	case spinner.TickMsg:
		if m.streaming {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			// the user turn shows up once the pull has started
			m.updateViewport()
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.streaming {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// resize lays out the components for a new terminal size
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 4
	inputHeight := 6
	statusHeight := 1
	padding := 2

	vpHeight := max(m.height-headerHeight-inputHeight-statusHeight-padding, 5)
	contentWidth := m.width - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.updateViewport()
}

// quit abandons any reply in flight and exits
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

// runCommand handles slash commands. It reports false for ordinary messages.
func (m *Model) runCommand(input string) (bool, tea.Cmd) {
	switch strings.ToLower(input) {
	case "exit", "quit", "/exit", "/quit":
		m.cancel()
		return true, tea.Quit
	case "/model", "/models":
		m.openModelSelector()
		return true, nil
	case "/prompt", "/prompts":
		m.openPromptSelector()
		return true, nil
	case "/clear":
		m.session.Clear()
		m.err = nil
		m.notice = "Conversation cleared"
		m.updateViewport()
		return true, nil
	case "/copy":
		m.copyLastReply()
		return true, nil
	}
	return false, nil
}

// submit starts streaming the reply to input
func (m *Model) submit(input string) tea.Cmd {
	m.err = nil
	m.notice = ""
	m.chunks = 0
	m.streaming = true
	m.textarea.Blur()

	m.stream = newReplyStream(m.session.Send(m.ctx, input))

	return tea.Batch(m.stream.pull(), m.spinner.Tick)
}

// finishStream releases the reply stream and re-enables input
func (m *Model) finishStream() {
	if m.stream != nil {
		m.stream.stop()
		m.stream = nil
	}
	m.streaming = false
	m.textarea.Focus()
	m.updateViewport()
	m.viewport.GotoBottom()
}

func (m *Model) copyLastReply() {
	reply, ok := m.session.LastReply()
	if !ok || strings.TrimSpace(reply) == "" {
		m.notice = "Nothing to copy yet"
		return
	}
	if err := m.copyFn(reply); err != nil {
		m.err = fmt.Errorf("failed to copy to clipboard: %w", err)
		return
	}
	m.notice = "Copied last reply to clipboard"
}

func (m *Model) openModelSelector() {
	ids := m.session.Models()
	current := -1
	items := make([]selectorItem, len(ids))
	for i, id := range ids {
		items[i] = selectorItem{label: string(id), description: m.session.ModelDescription(id)}
		if id == m.session.Model() {
			current = i
		}
	}
	m.selector = newSelector("Select a model (the conversation will be cleared)", items, current)
	m.selecting = selectingModel
}

func (m *Model) openPromptSelector() {
	prompts := m.session.Prompts()
	items := make([]selectorItem, len(prompts))
	for i, p := range prompts {
		items[i] = selectorItem{label: p}
	}
	m.selector = newSelector("Select a system prompt for "+string(m.session.Model()), items, m.session.PromptIndex())
	m.selecting = selectingPrompt
}

// updateSelection handles updates when a selector overlay is open
func (m Model) updateSelection(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

		switch m.selector.update(msg) {
		case selectorCancelled:
			m.selecting = selectingNone

		case selectorChosen:
			m.applySelection()
			m.selecting = selectingNone
			m.updateViewport()
		}
	}

	return m, nil
}

// applySelection commits the option under the selector cursor
func (m *Model) applySelection() {
	m.err = nil
	switch m.selecting {
	case selectingModel:
		id := models.ModelID(m.selector.items[m.selector.cursor].label)
		if err := m.session.SelectModel(id); err != nil {
			m.err = err
			return
		}
		m.notice = fmt.Sprintf("Switched to %s, conversation cleared", id)

	case selectingPrompt:
		if err := m.session.SelectPromptIndex(m.selector.cursor); err != nil {
			m.err = err
			return
		}
		m.notice = "System prompt updated"
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.selecting != selectingNone {
		box := m.selector.view(min(m.width-8, 100))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	var sections []string
	contentWidth := m.width - 4

	// HEADER
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ LLM Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(string(m.session.Model())),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(truncate(m.session.Prompt(), max(contentWidth-40, 10))),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// MESSAGES
	var messagesContent string
	if len(m.session.Transcript()) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// INPUT
	var inputContent string
	if m.streaming {
		inputContent = m.renderStreaming()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	// STATUS
	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.err != nil {
		sections = append(sections, m.formatError(m.err))
	} else if m.notice != "" {
		sections = append(sections, noticeStyle.Render("  "+m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("Chatting with "+string(m.session.Model())),
		"",
		welcomeStyle.Width(width).Render("Start a conversation by typing a message below"),
		"",
	)

	topPadding := max((height-lipgloss.Height(content))/2, 0)
	return strings.Repeat("\n", topPadding) + content
}

// renderStreaming renders the indicator shown while a reply streams in
func (m Model) renderStreaming() string {
	label := fmt.Sprintf(" Waiting for %s", m.session.Model())
	if m.chunks > 0 {
		label = fmt.Sprintf(" %s is replying", m.session.Model())
	}
	return m.spinner.View() + loadingStyle.Render(label)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"^O", "Model"},
		{"^P", "Prompt"},
		{"^Y", "Copy"},
		{"^L", "Clear"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	opts := m.renderOpts.WithWidth(bubbleWidth - 4)

	for i, turn := range m.session.Transcript() {
		if i > 0 {
			content.WriteString("\n")
		}

		switch turn.Role {
		case models.RoleUser:
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(turn.Content)
			content.WriteString(label + "\n" + bubble)

		case models.RoleAssistant:
			label := assistantLabelStyle.Render("✦ " + string(m.session.Model()))
			body := turn.Content
			if body == "" {
				body = hintStyle.Render("…")
			} else {
				body = render.Reply(body, opts)
			}
			content.WriteString(label + "\n" + assistantBubbleStyle.Width(bubbleWidth).Render(body))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// formatError formats an error with structured error details for display
func (m Model) formatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("⚠ Error: %v", err)))

	if hint := errorHint(err); hint != "" {
		hintLine := lipgloss.NewStyle().Foreground(colorPrimary).PaddingLeft(2)
		sb.WriteString("\n")
		sb.WriteString(hintLine.Render("💡 " + hint))
	}

	return sb.String()
}

// RunChat starts the chat TUI
func RunChat(ctx context.Context, session ChatSession, renderOpts render.Options) error {
	m := NewChatModel(ctx, session, renderOpts)
	defer m.cancel()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
