package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func inspectCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "inspect [path to module]",
		Short: "Browse a WebAssembly module interactively",
		Long:  "Browse a WebAssembly module's sections in a terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("expected exactly one argument")
			}
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("inspect requires a terminal; use dump instead")
			}
			p := tea.NewProgram(newInspectModel(args[0]), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
	return command
}

type inspectModel struct {
	err      error
	filename string
	entries  []sectionEntry
	view     viewport.Model
	selected int
	state    modelState
	ready    bool
}

type sectionEntry struct {
	title  string
	badge  string
	detail string
}

type modelState int

const (
	stateSelectSection modelState = iota
	stateViewSection
)

func newInspectModel(filename string) *inspectModel {
	return &inspectModel{
		filename: filename,
		state:    stateSelectSection,
	}
}

type loadedMsg struct {
	err     error
	entries []sectionEntry
}

func (m *inspectModel) Init() tea.Cmd {
	return m.loadModule
}

func (m *inspectModel) loadModule() tea.Msg {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	info, err := decodeModule(data)
	if err != nil {
		return loadedMsg{err: err}
	}

	return loadedMsg{entries: buildEntries(info)}
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectSection && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectSection && m.selected < len(m.entries)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateSelectSection && len(m.entries) > 0 {
				m.view.SetContent(m.entries[m.selected].detail)
				m.view.GotoTop()
				m.state = stateViewSection
			}

		case "esc":
			if m.state == stateViewSection {
				m.state = stateSelectSection
			}
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.view = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = msg.Height - 4
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.entries = msg.entries
	}

	if m.state == stateViewSection {
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *inspectModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if len(m.entries) == 0 {
		return "Loading module..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("wasmdump"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectSection:
		for i, e := range m.entries {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + m.formatEntry(e)))
			} else {
				b.WriteString(cursor + m.formatEntry(e))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • q quit"))

	case stateViewSection:
		e := m.entries[m.selected]
		b.WriteString(sectionStyle.Render(e.title))
		b.WriteString("\n")
		b.WriteString(m.view.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
	}

	return b.String()
}

func (m *inspectModel) formatEntry(e sectionEntry) string {
	s := sectionStyle.Render(e.title)
	if e.badge != "" {
		s += " " + countStyle.Render(e.badge)
	}
	return s
}

const previewBytes = 256

func hexPreview(data []byte) string {
	n := len(data)
	truncated := false
	if n > previewBytes {
		n = previewBytes
		truncated = true
	}
	s := hex.Dump(data[:n])
	if truncated {
		s += fmt.Sprintf("... %d more bytes\n", len(data)-previewBytes)
	}
	return s
}

func buildEntries(info *moduleInfo) []sectionEntry {
	m := info.Module()
	var entries []sectionEntry

	var b strings.Builder
	for _, s := range info.sections {
		fmt.Fprintf(&b, "%-9s %d bytes\n", s.ID, s.Size)
	}
	entries = append(entries, sectionEntry{
		title:  "overview",
		badge:  fmt.Sprintf("(%d sections)", len(info.sections)),
		detail: b.String(),
	})

	if len(m.Types) > 0 {
		var b strings.Builder
		for i, t := range m.Types {
			fmt.Fprintf(&b, "%d: %s\n", i, t)
		}
		entries = append(entries, sectionEntry{
			title:  "types",
			badge:  fmt.Sprintf("(%d)", len(m.Types)),
			detail: b.String(),
		})
	}

	if len(m.Imports) > 0 {
		var b strings.Builder
		for i, imp := range m.Imports {
			fmt.Fprintf(&b, "%d: %s.%s %s\n", i, imp.Module, imp.Name, describeImport(imp))
		}
		entries = append(entries, sectionEntry{
			title:  "imports",
			badge:  fmt.Sprintf("(%d)", len(m.Imports)),
			detail: b.String(),
		})
	}

	if len(m.Funcs) > 0 {
		var b strings.Builder
		imported := m.NumImportedFuncs()
		for i := range m.Funcs {
			idx := uint32(imported + i)
			sig, _ := m.FuncTypeAt(idx)
			fmt.Fprintf(&b, "%d: %s\n", idx, sig)
		}
		entries = append(entries, sectionEntry{
			title:  "functions",
			badge:  fmt.Sprintf("(%d)", len(m.Funcs)),
			detail: b.String(),
		})
	}

	if len(m.Tables) > 0 {
		var b strings.Builder
		for i, t := range m.Tables {
			fmt.Fprintf(&b, "%d: %s %s\n", i, t.Elem, t.Limits)
		}
		entries = append(entries, sectionEntry{
			title:  "tables",
			badge:  fmt.Sprintf("(%d)", len(m.Tables)),
			detail: b.String(),
		})
	}

	if len(m.Memories) > 0 {
		var b strings.Builder
		for i, mt := range m.Memories {
			fmt.Fprintf(&b, "%d: %s\n", i, mt.Limits)
		}
		entries = append(entries, sectionEntry{
			title:  "memories",
			badge:  fmt.Sprintf("(%d)", len(m.Memories)),
			detail: b.String(),
		})
	}

	if len(m.Globals) > 0 {
		var b strings.Builder
		for i, g := range m.Globals {
			fmt.Fprintf(&b, "%d: %s\n%s\n", i, describeGlobalType(g.Type), hexPreview(g.Init))
		}
		entries = append(entries, sectionEntry{
			title:  "globals",
			badge:  fmt.Sprintf("(%d)", len(m.Globals)),
			detail: b.String(),
		})
	}

	if len(m.Exports) > 0 {
		var b strings.Builder
		for _, e := range m.Exports {
			fmt.Fprintf(&b, "%s -> %s %d\n", e.Name, kindString(e.Kind), e.Idx)
		}
		entries = append(entries, sectionEntry{
			title:  "exports",
			badge:  fmt.Sprintf("(%d)", len(m.Exports)),
			detail: b.String(),
		})
	}

	if m.Start != nil {
		entries = append(entries, sectionEntry{
			title:  "start",
			detail: fmt.Sprintf("func %d\n", *m.Start),
		})
	}

	for _, sec := range m.Raw {
		entries = append(entries, sectionEntry{
			title:  sec.ID.String(),
			badge:  fmt.Sprintf("(%d bytes)", len(sec.Data)),
			detail: hexPreview(sec.Data),
		})
	}

	for _, sec := range m.CustomSections {
		entries = append(entries, sectionEntry{
			title:  fmt.Sprintf("custom %q", sec.Name),
			badge:  fmt.Sprintf("(%d bytes)", len(sec.Data)),
			detail: hexPreview(sec.Data),
		})
	}

	return entries
}
