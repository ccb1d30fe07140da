// Package tui provides a terminal user interface for bsr2trip
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bsr2trip/internal/beatsaver"
	"bsr2trip/internal/install"
	"bsr2trip/pkg/beatsaber"
	"bsr2trip/pkg/converter"
)

// Trip-inspired color scheme (neon arcade aesthetic)
var (
	tripPink   = lipgloss.Color("#FF2E97")
	tripCyan   = lipgloss.Color("#00E5FF")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(tripCyan).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(tripPink).
			PaddingTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(silverGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(tripCyan).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(tripCyan).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateInput State = iota
	StateConverting
	StateResult
)

// Model represents the TUI model
type Model struct {
	state     State
	input     textinput.Model
	spinner   spinner.Model
	code      string
	outputDir string
	result    install.Result
	report    *converter.Report
	err       error
	width     int
	height    int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	result install.Result
	report *converter.Report
	err    error
}

// New creates a new TUI model writing output into outputDir.
func New(outputDir string) Model {
	ti := textinput.New()
	ti.Placeholder = "BSR code (e.g. 4d2be) or map folder"
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(tripCyan)

	return Model{
		state:     StateInput,
		input:     ti,
		spinner:   s,
		outputDir: outputDir,
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateInput:
			return m.updateInput(msg)
		case StateResult:
			return m.updateResult(msg)
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.result = msg.result
		m.report = msg.report
		m.err = msg.err
		return m, nil
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		code := strings.TrimSpace(m.input.Value())
		if code == "" {
			return m, nil
		}
		m.code = code
		m.state = StateConverting
		return m, tea.Batch(m.spinner.Tick, m.performConversion())
	case "ctrl+c", "esc":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateInput
		m.err = nil
		m.report = nil
		m.input.SetValue("")
		return m, textinput.Blink
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performConversion() tea.Cmd {
	code := m.code
	outputDir := m.outputDir
	return func() tea.Msg {
		lvl, err := loadLevel(code)
		if err != nil {
			return conversionDoneMsg{err: err}
		}

		conv, err := converter.New(converter.DefaultOptions())
		if err != nil {
			return conversionDoneMsg{err: err}
		}
		doc, report, err := conv.ConvertLevel(lvl)
		if err != nil {
			return conversionDoneMsg{report: report, err: err}
		}

		result, err := install.Install(doc, lvl, outputDir)
		if err != nil {
			return conversionDoneMsg{report: report, err: err}
		}
		return conversionDoneMsg{result: result, report: report}
	}
}

// loadLevel treats the input as a local folder when it exists, otherwise
// as a BSR code to fetch.
func loadLevel(code string) (*beatsaber.Level, error) {
	if info, err := os.Stat(code); err == nil && info.IsDir() {
		return beatsaber.Load(code)
	}

	ctx := context.Background()
	client := beatsaver.New()
	detail, err := client.MapDetail(ctx, code)
	if err != nil {
		return nil, err
	}
	workDir, err := os.MkdirTemp("", "bsr2trip-")
	if err != nil {
		return nil, err
	}
	mapDir, hash, err := client.Download(ctx, detail, workDir)
	if err != nil {
		return nil, err
	}
	lvl, err := beatsaber.Load(mapDir)
	if err != nil {
		return nil, err
	}
	lvl.Hash = hash
	return lvl, nil
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateInput:
		s.WriteString(m.viewInput())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: confirm • esc: back • ctrl+c: quit"))

	return s.String()
}

func (m Model) viewInput() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CONVERT A MAP "))
	s.WriteString("\n\n")
	s.WriteString(labelStyle.Render("Enter a BeatSaver BSR code or a local map folder:"))
	s.WriteString("\n\n")
	s.WriteString(m.input.View())

	return boxStyle.Render(s.String())
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CONVERTING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Converting %s...\n", m.spinner.View(), m.code))
	s.WriteString(statusStyle.Render("  fetching, classifying, assembling"))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Conversion failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Conversion complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Output: %s\n", m.result.ATSPath))
		if m.report != nil {
			s.WriteString(fmt.Sprintf("Converted %d, dropped %d, failed %d\n",
				m.report.TotalConverted(), m.report.TotalDropped(), m.report.TotalFailed()))
			for _, sk := range m.report.Skipped {
				s.WriteString(labelStyle.Render("  - " + sk.String()))
				s.WriteString("\n")
			}
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Press enter to convert another map"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
   ____  _____ ____  ____  _____ ____  ___ ____
  | __ )/ ____|  _ \|___ \|_   _|  _ \|_ _|  _ \
  |  _ \\___ \| |_) | __) | | | | |_) || || |_) |
  | |_) |___) |  _ < / __/  | | |  _ < | ||  __/
  |____/|____/|_| \_\_____| |_| |_| \_\___|_|
`
	return lipgloss.NewStyle().Foreground(tripPink).Render(logo)
}

// Run starts the TUI application
func Run(outputDir string) error {
	p := tea.NewProgram(New(outputDir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
