package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxSelectorItems is how many options are visible at once
const maxSelectorItems = 8

// selectorItem is one option of a selector overlay
type selectorItem struct {
	label       string
	description string
}

// selector is the overlay list used for picking a model or a system prompt
type selector struct {
	title   string
	items   []selectorItem
	cursor  int
	current int // index of the active option, -1 if none
}

// selectorResult reports what a key press did to the selector
type selectorResult int

const (
	selectorPending selectorResult = iota
	selectorChosen
	selectorCancelled
)

func newSelector(title string, items []selectorItem, current int) selector {
	cursor := current
	if cursor < 0 || cursor >= len(items) {
		cursor = 0
	}
	return selector{
		title:   title,
		items:   items,
		cursor:  cursor,
		current: current,
	}
}

// update handles a key press. Digits 1-9 pick an option directly.
func (s *selector) update(msg tea.KeyMsg) selectorResult {
	switch msg.String() {
	case "esc", "q":
		return selectorCancelled

	case "up", "k", "shift+tab":
		if len(s.items) > 0 {
			s.cursor--
			if s.cursor < 0 {
				s.cursor = len(s.items) - 1
			}
		}

	case "down", "j", "tab":
		if len(s.items) > 0 {
			s.cursor++
			if s.cursor >= len(s.items) {
				s.cursor = 0
			}
		}

	case "enter":
		if len(s.items) > 0 {
			return selectorChosen
		}

	default:
		key := msg.String()
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			idx := int(key[0] - '1')
			if idx < len(s.items) {
				s.cursor = idx
				return selectorChosen
			}
		}
	}

	return selectorPending
}

// view renders the selector box
func (s selector) view(width int) string {
	if width < 40 {
		width = 40
	}

	var content strings.Builder
	content.WriteString(selectorTitleStyle.Render(s.title))
	content.WriteString("\n\n")

	if len(s.items) == 0 {
		content.WriteString(hintStyle.Render("  Nothing to choose from"))
	} else {
		start := 0
		if s.cursor >= maxSelectorItems {
			start = s.cursor - maxSelectorItems + 1
		}
		end := min(start+maxSelectorItems, len(s.items))

		if start > 0 {
			content.WriteString(hintStyle.Render("  ↑ more above"))
			content.WriteString("\n")
		}

		for i := start; i < end; i++ {
			item := s.items[i]

			cursor := "  "
			labelStyle := selectorItemStyle
			if i == s.cursor {
				cursor = selectorCursorStyle.Render("▸ ")
				labelStyle = selectorSelectedStyle
			}

			line := fmt.Sprintf("%s%d. %s", cursor, i+1, labelStyle.Render(truncate(item.label, width-16)))
			if i == s.current {
				line += selectorCurrentStyle.Render(" ●")
			}
			if item.description != "" {
				room := width - lipgloss.Width(line) - 6
				if room > 10 {
					line += hintStyle.Render(" - " + truncate(item.description, room))
				}
			}

			content.WriteString(line)
			content.WriteString("\n")
		}

		if end < len(s.items) {
			content.WriteString(hintStyle.Render("  ↓ more below"))
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")

	shortcuts := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Select"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Cancel"),
	}
	content.WriteString(strings.Join(shortcuts, "  │  "))

	return selectorBoxStyle.Width(width).Render(content.String())
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:max(n, 0)])
	}
	return string(r[:n-3]) + "..."
}
