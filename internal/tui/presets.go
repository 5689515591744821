// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/passforge/internal/db"
	"github.com/toeirei/passforge/internal/i18n"
	"github.com/toeirei/passforge/internal/model"
	"github.com/toeirei/passforge/internal/passphrase"
)

// presetsModel lists built-in and stored presets. Stored presets shadow
// built-ins of the same name and are the only ones that can be deleted.
type presetsModel struct {
	table   table.Model
	presets []model.Preset // rows in table order
	builtin map[string]bool
	status  string
	err     error
}

func newPresetsModel() *presetsModel {
	m := &presetsModel{}

	columns := []table.Column{
		{Title: i18n.T("presets.header.name"), Width: 20},
		{Title: i18n.T("presets.header.words"), Width: 8},
		{Title: i18n.T("presets.header.length"), Width: 8},
		{Title: i18n.T("presets.header.options"), Width: 45},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15), // Placeholder height
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSubtle).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorWhite).
		Background(colorHighlight).
		Bold(false)
	t.SetStyles(s)

	m.table = t
	m.reload()
	return m
}

// reload rebuilds the table from built-ins plus stored presets.
func (m *presetsModel) reload() {
	stored, err := db.GetAllPresets()
	if err != nil {
		m.err = err
		return
	}

	shadowed := make(map[string]bool, len(stored))
	for _, p := range stored {
		shadowed[p.Name] = true
	}

	m.presets = m.presets[:0]
	m.builtin = map[string]bool{}
	for _, p := range passphrase.BuiltinPresets() {
		if shadowed[p.Name] {
			continue
		}
		m.presets = append(m.presets, p)
		m.builtin[p.Name] = true
	}
	m.presets = append(m.presets, stored...)

	var rows []table.Row
	for _, p := range m.presets {
		name := p.Name
		if m.builtin[p.Name] {
			name = helpStyle.Render(p.Name + " *")
		}
		rows = append(rows, table.Row{
			name,
			fmt.Sprintf("%d", p.WordCount),
			fmt.Sprintf("%d", p.Length),
			optionSummary(passphrase.FromPreset(p)),
		})
	}
	m.table.SetRows(rows)
}

func (m *presetsModel) Init() tea.Cmd { return nil }

func (m *presetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 6)
		m.table.SetWidth(msg.Width - 4)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, func() tea.Msg { return backToMenuMsg{} }
		case "d":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.presets) {
				return m, nil
			}
			p := m.presets[idx]
			if m.builtin[p.Name] {
				m.status = helpStyle.Render(i18n.T("presets.builtin_protected"))
				return m, nil
			}
			if err := db.DeletePreset(p.Name); err != nil {
				m.status = errorStyle.Render(err.Error())
			} else {
				m.status = statusMessageStyle.Render(i18n.T("presets.deleted", p.Name))
				m.reload()
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *presetsModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error loading presets: %v", m.err))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("📋 "+i18n.T("presets.title")) + "\n\n")

	if len(m.table.Rows()) == 0 {
		b.WriteString(helpStyle.Render(i18n.T("presets.empty")))
	} else {
		b.WriteString(m.table.View())
	}

	if m.status != "" {
		b.WriteString("\n" + m.status)
	}
	b.WriteString(helpStyle.Render("\n" + i18n.T("presets.help")))
	return b.String()
}
