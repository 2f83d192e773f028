package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/llmchat/internal/config"
	"github.com/diogo/llmchat/internal/render"
)

// configView represents the current view in the settings menu
type configView int

const (
	viewMain configView = iota
	viewPick
)

// configMenuItem identifies one row of the settings menu
type configMenuItem int

const (
	menuDefaultModel configMenuItem = iota
	menuCopyToClipboard
	menuMarkdownStyle
	menuTUITheme
	menuLogLevel
	menuExit
)

var configMenuLabels = []string{
	"Default model",
	"Copy replies to clipboard",
	"Markdown style",
	"TUI theme",
	"Log level",
	"Exit",
}

// LogLevels are the levels offered by the settings menu
var LogLevels = []string{"debug", "info", "warn", "error"}

// feedbackClearMsg clears the feedback line
type feedbackClearMsg struct{}

// SaveFunc persists settings
type SaveFunc func(config.Config) error

// ConfigModel is the interactive settings editor
type ConfigModel struct {
	cfg     config.Config
	catalog *config.Catalog
	save    SaveFunc

	configPath  string
	catalogPath string
	apiKeySet   bool

	view    configView
	cursor  int
	picking configMenuItem
	picker  selector

	feedback        string
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewConfigModel creates the settings editor for cfg. save is called after
// every change.
func NewConfigModel(cfg config.Config, catalog *config.Catalog, save SaveFunc) ConfigModel {
	configPath, _ := config.GetConfigPath()
	catalogPath, _ := config.GetCatalogPath()

	return ConfigModel{
		cfg:             cfg,
		catalog:         catalog,
		save:            save,
		configPath:      configPath,
		catalogPath:     catalogPath,
		apiKeySet:       config.HasAPIKey(),
		view:            viewMain,
		feedbackTimeout: 2 * time.Second,
	}
}

// Config returns the settings as currently edited
func (m ConfigModel) Config() config.Config {
	return m.cfg
}

// Init implements tea.Model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update implements tea.Model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case feedbackClearMsg:
		m.feedback = ""
		return m, nil

	case tea.KeyMsg:
		if m.view == viewPick {
			return m.updatePick(msg)
		}

		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "up", "k":
			m.cursor--
			if m.cursor < 0 {
				m.cursor = int(menuExit)
			}

		case "down", "j":
			m.cursor++
			if m.cursor > int(menuExit) {
				m.cursor = 0
			}

		case "enter", " ":
			return m.activate(configMenuItem(m.cursor))
		}
	}

	return m, nil
}

func (m ConfigModel) activate(item configMenuItem) (tea.Model, tea.Cmd) {
	switch item {
	case menuExit:
		return m, tea.Quit

	case menuCopyToClipboard:
		m.cfg.CopyToClipboard = !m.cfg.CopyToClipboard
		return m.persist(fmt.Sprintf("Copy to clipboard: %s", onOff(m.cfg.CopyToClipboard)))
	}

	title, items, current := m.pickerOptions(item)
	m.picking = item
	m.picker = newSelector(title, items, current)
	m.view = viewPick
	return m, nil
}

func (m ConfigModel) pickerOptions(item configMenuItem) (string, []selectorItem, int) {
	var names []string
	var items []selectorItem
	var current string

	switch item {
	case menuDefaultModel:
		names = m.catalog.ModelNames()
		for _, id := range m.catalog.Models() {
			items = append(items, selectorItem{label: string(id), description: m.catalog.Description(id)})
		}
		current = m.cfg.DefaultModel
		return "Default model", items, slices.Index(names, current)

	case menuMarkdownStyle:
		for _, t := range render.AvailableThemes() {
			names = append(names, t.Name)
			items = append(items, selectorItem{label: t.Name, description: t.Description})
		}
		current = render.CanonicalStyle(m.cfg.Markdown.Style)
		return "Markdown style", items, slices.Index(names, current)

	case menuTUITheme:
		for _, t := range render.AvailableTUIThemes() {
			names = append(names, t.Name)
			items = append(items, selectorItem{label: t.Name, description: t.Description})
		}
		current = m.cfg.TUITheme
		if current == "" {
			current = render.DefaultTUITheme
		}
		return "TUI theme", items, slices.Index(names, strings.ToLower(current))

	case menuLogLevel:
		for _, l := range LogLevels {
			items = append(items, selectorItem{label: l})
		}
		return "Log level", items, slices.Index(LogLevels, strings.ToLower(m.cfg.Log.Level))
	}

	return "", nil, -1
}

func (m ConfigModel) updatePick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.picker.update(msg) {
	case selectorCancelled:
		m.view = viewMain
		return m, nil
	case selectorChosen:
		m.view = viewMain
		return m.applyPick(m.picker.items[m.picker.cursor].label)
	}
	return m, nil
}

func (m ConfigModel) applyPick(value string) (tea.Model, tea.Cmd) {
	switch m.picking {
	case menuDefaultModel:
		m.cfg.DefaultModel = value
		return m.persist("Default model: " + value)

	case menuMarkdownStyle:
		m.cfg.Markdown.Style = value
		return m.persist("Markdown style: " + value)

	case menuTUITheme:
		if err := render.SetTUITheme(value); err != nil {
			m.feedback = "Error: " + err.Error()
			return m, clearFeedback(m.feedbackTimeout)
		}
		UpdateTheme()
		m.cfg.TUITheme = value
		return m.persist("TUI theme: " + value)

	case menuLogLevel:
		m.cfg.Log.Level = value
		return m.persist("Log level: " + value)
	}
	return m, nil
}

func (m ConfigModel) persist(feedback string) (tea.Model, tea.Cmd) {
	if m.save != nil {
		if err := m.save(m.cfg); err != nil {
			m.feedback = "Error: " + err.Error()
			return m, clearFeedback(m.feedbackTimeout)
		}
	}
	m.feedback = "✓ " + feedback
	return m, clearFeedback(m.feedbackTimeout)
}

// View implements tea.Model
func (m ConfigModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	width := m.width - 4
	if width > 70 {
		width = 70
	}
	if width < 30 {
		width = 30
	}

	var body string
	if m.view == viewPick {
		body = m.picker.view(width)
	} else {
		body = m.renderMainMenu(width)
	}

	sections := []string{
		configHeaderStyle.Width(width).Render("llmchat settings"),
		body,
	}
	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render(m.feedback))
	}
	sections = append(sections, m.renderStatusBar())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m ConfigModel) renderMainMenu(width int) string {
	var b strings.Builder

	b.WriteString(configSectionTitleStyle.Render("Files"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Settings  %s\n", configPathStyle.Render(m.configPath)))
	b.WriteString(fmt.Sprintf("  Catalog   %s\n", configPathStyle.Render(m.catalogPath)))
	b.WriteString(fmt.Sprintf("  API key   %s\n\n", m.renderAPIKeyStatus()))

	b.WriteString(configSectionTitleStyle.Render("Settings"))
	b.WriteString("\n")

	for i, label := range configMenuLabels {
		cursor := "  "
		style := selectorItemStyle
		if i == m.cursor {
			cursor = selectorCursorStyle.Render("▸ ")
			style = selectorSelectedStyle
		}

		line := cursor + style.Render(label)
		if value := m.renderValue(configMenuItem(i)); value != "" {
			line += "  " + value
		}
		b.WriteString(line)
		if i < len(configMenuLabels)-1 {
			b.WriteString("\n")
		}
	}

	return configPanelStyle.Width(width).Render(b.String())
}

func (m ConfigModel) renderValue(item configMenuItem) string {
	switch item {
	case menuDefaultModel:
		return configValueStyle.Render(m.cfg.DefaultModel)
	case menuCopyToClipboard:
		return renderBoolValue(m.cfg.CopyToClipboard)
	case menuMarkdownStyle:
		return configValueStyle.Render(render.CanonicalStyle(m.cfg.Markdown.Style))
	case menuTUITheme:
		theme := m.cfg.TUITheme
		if theme == "" {
			theme = render.DefaultTUITheme
		}
		return configValueStyle.Render(theme)
	case menuLogLevel:
		return configValueStyle.Render(m.cfg.Log.Level)
	}
	return ""
}

func (m ConfigModel) renderAPIKeyStatus() string {
	if m.apiKeySet {
		return configEnabledStyle.Render("set")
	}
	return configDisabledStyle.Render("missing (" + config.EnvAPIKey + ")")
}

func renderBoolValue(v bool) string {
	if v {
		return configEnabledStyle.Render("on")
	}
	return configDisabledStyle.Render("off")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (m ConfigModel) renderStatusBar() string {
	items := []struct{ key, desc string }{
		{"↑↓", "navigate"},
		{"enter", "select"},
		{"esc", "back"},
	}
	if m.view == viewMain {
		items[2].desc = "quit"
	}

	var parts []string
	for _, it := range items {
		parts = append(parts, statusKeyStyle.Render(it.key)+" "+statusDescStyle.Render(it.desc))
	}
	return statusBarStyle.Render(strings.Join(parts, "  "))
}

// RunConfig starts the settings editor
func RunConfig(cfg config.Config, catalog *config.Catalog) error {
	p := tea.NewProgram(NewConfigModel(cfg, catalog, config.SaveConfig), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
