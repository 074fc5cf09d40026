package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ollamachat/ollamachat/internal/models"
)

// maxSelectorItems is how many models the overlay shows at once
const maxSelectorItems = 8

// modelSelector is the state of the model picker overlay
type modelSelector struct {
	open   bool
	cursor int
	filter string
}

// openSelector shows the picker with the cursor on the current selection.
// It does nothing while the model list is unavailable.
func (m *Model) openSelector() {
	if !m.state.ChatReady() || m.loadingModels() {
		return
	}
	if len(m.state.Models) == 0 {
		m.setNotice("The server offers no models", true)
		return
	}
	m.selector = modelSelector{open: true}
	for i, model := range m.state.Models {
		if model.Name == m.state.Selection {
			m.selector.cursor = i
			break
		}
	}
}

func (m *Model) closeSelector() {
	m.selector = modelSelector{}
}

// filteredModels returns the models whose name contains the filter
func (m Model) filteredModels() []models.Model {
	if m.selector.filter == "" {
		return m.state.Models
	}
	filter := strings.ToLower(m.selector.filter)
	var filtered []models.Model
	for _, model := range m.state.Models {
		if strings.Contains(strings.ToLower(model.Name), filter) {
			filtered = append(filtered, model)
		}
	}
	return filtered
}

func (m Model) updateSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtered := m.filteredModels()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.closeSelector()

	case "up":
		if len(filtered) > 0 {
			m.selector.cursor--
			if m.selector.cursor < 0 {
				m.selector.cursor = len(filtered) - 1
			}
		}

	case "down":
		if len(filtered) > 0 {
			m.selector.cursor++
			if m.selector.cursor >= len(filtered) {
				m.selector.cursor = 0
			}
		}

	case "enter":
		if m.selector.cursor < len(filtered) {
			name := filtered[m.selector.cursor].Name
			if err := m.session.Registry().Select(name); err != nil {
				m.setNotice(err.Error(), true)
			}
			m.closeSelector()
			m.refresh()
		}

	case "backspace":
		if len(m.selector.filter) > 0 {
			runes := []rune(m.selector.filter)
			m.selector.filter = string(runes[:len(runes)-1])
			m.selector.cursor = 0
		}

	default:
		if msg.Type == tea.KeyRunes {
			m.selector.filter += string(msg.Runes)
			m.selector.cursor = 0
		}
	}

	return m, nil
}

// renderSelector renders the model picker overlay
func (m Model) renderSelector() string {
	width := m.viewport.Width
	if width < 40 {
		width = 40
	}

	var content strings.Builder
	content.WriteString(selectorTitleStyle.Render("Select a model"))
	if m.state.Selection != "" {
		content.WriteString(hintStyle.Render(fmt.Sprintf("  (current: %s)", m.state.Selection)))
	}
	content.WriteString("\n\n")

	if m.selector.filter != "" {
		content.WriteString(inputLabelStyle.Render("filter:") + m.selector.filter + "_\n\n")
	}

	filtered := m.filteredModels()
	if len(filtered) == 0 {
		content.WriteString(hintStyle.Render("  No models match filter"))
		return selectorBoxStyle.Width(width).Render(content.String())
	}

	start := 0
	if m.selector.cursor >= maxSelectorItems {
		start = m.selector.cursor - maxSelectorItems + 1
	}
	end := start + maxSelectorItems
	if end > len(filtered) {
		end = len(filtered)
	}

	if start > 0 {
		content.WriteString(hintStyle.Render("  ↑ more above") + "\n")
	}
	for i := start; i < end; i++ {
		name := filtered[i].Name
		cursor := "  "
		line := selectorItemStyle.Render(name)
		if i == m.selector.cursor {
			cursor = selectorCursorStyle.Render("▸ ")
			line = selectorSelectedStyle.Render(name)
		}
		if name == m.state.Selection {
			line += selectorCurrentStyle.Render(" ✓")
		}
		content.WriteString(cursor + line + "\n")
	}
	if end < len(filtered) {
		content.WriteString(hintStyle.Render("  ↓ more below") + "\n")
	}

	return selectorBoxStyle.Width(width).Render(content.String())
}
