// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/passforge/internal/db"
	"github.com/toeirei/passforge/internal/i18n"
	"github.com/toeirei/passforge/internal/model"
	"github.com/toeirei/passforge/internal/passphrase"
	"github.com/toeirei/passforge/internal/security"
)

// candidateCount is how many passphrases the generate view offers per roll.
const candidateCount = 5

// generateModel holds the state of the interactive generator view.
type generateModel struct {
	cfg         passphrase.Config
	words       []string
	stored      []model.Preset
	presetNames []string
	presetIdx   int
	candidates  []security.Secret
	cursor      int
	entropy     float64
	status      string
	saving      bool
	nameInput   textinput.Model
	width       int
	err         error
}

func newGenerateModel() *generateModel {
	m := &generateModel{}

	stored, err := db.GetAllPresets()
	if err != nil {
		m.err = err
		return m
	}
	m.stored = stored
	m.presetNames = presetCycle(stored)
	for i, n := range m.presetNames {
		if n == passphrase.PresetStandard {
			m.presetIdx = i
			break
		}
	}

	cfg, err := resolvePreset(m.presetNames[m.presetIdx], m.stored)
	if err != nil {
		m.err = err
		return m
	}
	m.cfg = cfg

	words, err := activeWordlist()
	if err != nil {
		m.err = err
		return m
	}
	m.words = words

	ti := textinput.New()
	ti.Placeholder = "name"
	ti.CharLimit = 64
	ti.Width = 30
	m.nameInput = ti

	m.regenerate()
	return m
}

// regenerate rolls a fresh set of candidates, zeroing the previous ones.
func (m *generateModel) regenerate() {
	m.zeroCandidates()
	m.candidates = m.candidates[:0]
	m.cursor = 0
	m.status = ""

	for i := 0; i < candidateCount; i++ {
		out, err := passphrase.Generate(m.cfg, m.words)
		if err != nil {
			m.err = err
			return
		}
		m.candidates = append(m.candidates, security.FromString(out))
	}
	m.entropy = passphrase.Entropy(m.cfg, len(m.words))

	// Metadata only; the passphrases themselves never reach the audit trail.
	_ = db.LogAction("GENERATE", fmt.Sprintf("preset: %s, words: %d, length: %d, count: %d",
		m.presetNames[m.presetIdx], m.cfg.WordCount, m.cfg.Length, candidateCount))
}

// zeroCandidates wipes all candidate buffers. Called on regenerate and when
// the view is left.
func (m *generateModel) zeroCandidates() {
	for i := range m.candidates {
		m.candidates[i].Zero()
	}
}

func (m *generateModel) Init() tea.Cmd { return nil }

func (m *generateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.err != nil {
			// Any key backs out of a broken view.
			return m, func() tea.Msg { return backToMenuMsg{} }
		}

		if m.saving {
			switch msg.Type {
			case tea.KeyEsc:
				m.saving = false
				m.nameInput.Blur()
				return m, nil
			case tea.KeyEnter:
				name := strings.TrimSpace(m.nameInput.Value())
				if name == "" {
					return m, nil
				}
				if _, err := db.AddPreset(passphrase.ToPreset(name, m.cfg)); err != nil {
					m.status = errorStyle.Render(err.Error())
				} else {
					m.status = statusMessageStyle.Render(i18n.T("presets.saved", name))
					if stored, err := db.GetAllPresets(); err == nil {
						m.stored = stored
						m.presetNames = presetCycle(stored)
					}
				}
				m.saving = false
				m.nameInput.Blur()
				m.nameInput.SetValue("")
				return m, nil
			}
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q", "esc":
			return m, func() tea.Msg { return backToMenuMsg{} }
		case "r":
			m.regenerate()
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.candidates)-1 {
				m.cursor++
			}
		case "c", "enter":
			if m.cursor < len(m.candidates) {
				if err := clipboard.WriteAll(m.candidates[m.cursor].Reveal()); err != nil {
					m.status = errorStyle.Render(i18n.T("generate.copy_failed", err))
				} else {
					m.status = statusMessageStyle.Render(i18n.T("generate.copied"))
				}
			}
		case "+", "=":
			if m.cfg.WordCount < passphrase.MaxWordCount {
				m.cfg.WordCount++
				m.regenerate()
			}
		case "-":
			if m.cfg.WordCount > passphrase.MinWordCount {
				m.cfg.WordCount--
				m.regenerate()
			}
		case "n":
			m.cfg.IncludeNumbers = !m.cfg.IncludeNumbers
			m.regenerate()
		case "d":
			m.cfg.IncludeDelimiters = !m.cfg.IncludeDelimiters
			m.regenerate()
		case "z":
			m.cfg.RandomizeDelimiters = !m.cfg.RandomizeDelimiters
			m.regenerate()
		case "x":
			m.cfg.UseComplexDelimiters = !m.cfg.UseComplexDelimiters
			m.regenerate()
		case "tab":
			m.presetIdx = (m.presetIdx + 1) % len(m.presetNames)
			cfg, err := resolvePreset(m.presetNames[m.presetIdx], m.stored)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.cfg = cfg
			m.regenerate()
		case "s":
			m.saving = true
			m.nameInput.Focus()
			return m, textinput.Blink
		}
	}
	return m, nil
}

// optionSummary renders the toggled options as a compact status string.
func optionSummary(cfg passphrase.Config) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("words: %d", cfg.WordCount))
	parts = append(parts, fmt.Sprintf("length: %d", cfg.Length))
	if cfg.IncludeNumbers {
		parts = append(parts, fmt.Sprintf("numbers(%d)", cfg.NumberLength))
	}
	if cfg.IncludeDelimiters {
		d := "delims"
		if cfg.RandomizeDelimiters {
			d += "(random)"
		}
		if cfg.UseComplexDelimiters {
			d += "(complex)"
		}
		parts = append(parts, d)
	}
	return strings.Join(parts, " • ")
}

func (m *generateModel) View() string {
	if m.err != nil {
		return errorStyle.Render(i18n.T("generate.error", m.err))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("🎲 "+i18n.T("generate.title")) + "\n\n")

	b.WriteString("  " + i18n.T("generate.preset", m.presetNames[m.presetIdx]) + "\n")
	b.WriteString("  " + helpStyle.Render(optionSummary(m.cfg)) + "\n")
	b.WriteString("  " + helpStyle.Render(i18n.T("generate.entropy", m.entropy)) + "\n\n")

	for i, c := range m.candidates {
		line := "  " + secretStyle.Render(c.Reveal())
		if i == m.cursor {
			line = selectedItemStyle.Render("▸ ") + secretStyle.Render(c.Reveal())
		}
		b.WriteString(line + "\n")
	}

	if m.saving {
		b.WriteString("\n  " + i18n.T("presets.save_prompt") + " " + m.nameInput.View() + "\n")
	} else if m.status != "" {
		b.WriteString("\n  " + m.status + "\n")
	}

	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")).Padding(0, 1).Italic(true)
	width := m.width
	if width <= 0 {
		width = 80
	}
	b.WriteString("\n" + footerStyle.Render(AlignFooter(i18n.T("generate.help"), "", width)))
	return b.String()
}
