// Package tui provides the interactive terminal front end: a form for
// the automation parameters, a plugin file picker and a progress view
// for the batch run.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MikePehel/vst-param-cascade/pkg/host"
	"github.com/MikePehel/vst-param-cascade/pkg/render"
	"github.com/MikePehel/vst-param-cascade/pkg/sweep"
	"github.com/MikePehel/vst-param-cascade/pkg/vst"
)

var (
	accentGreen = lipgloss.Color("#39FF14")
	warnYellow  = lipgloss.Color("#FFFF00")
	silverGray  = lipgloss.Color("#C0C0C0")
	darkGray    = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentGreen).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			Width(14)

	focusedLabelStyle = lipgloss.NewStyle().
				Foreground(accentGreen).
				Bold(true).
				Width(14)

	statusStyle = lipgloss.NewStyle().
			Foreground(warnYellow).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(accentGreen).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentGreen).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateForm State = iota
	StateFilePicker
	StateRendering
	StateResult
)

// form field indexes
const (
	fieldPlugin = iota
	fieldSampleRate
	fieldDuration
	fieldNoteMin
	fieldNoteMax
	fieldMappings
	fieldValues
	fieldOutputDir
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Plugin",
	"Sample rate",
	"Duration (s)",
	"Note min",
	"Note max",
	"CC mappings",
	"CC values",
	"Output dir",
}

// Model represents the TUI model
type Model struct {
	state      State
	backend    host.Host
	inputs     [fieldCount]textinput.Model
	focus      int
	filePicker filepicker.Model
	spinner    spinner.Model
	jobCount   int
	err        error
	width      int
	height     int
}

// renderDoneMsg signals batch completion
type renderDoneMsg struct {
	jobs int
	err  error
}

// New creates a new TUI model running batches against backend.
func New(backend host.Host) Model {
	var inputs [fieldCount]textinput.Model
	defaults := [fieldCount]string{"", "44100", "0.5", "42", "90", "1:mod", "0,64,127", "output"}
	placeholders := [fieldCount]string{
		"path to plugin (ctrl+o to browse)",
		"44100 / 48000 / 88200 / 96000 / 192000",
		"0.5",
		"0-127",
		"0-127",
		"num:label, num:label",
		"0,64,127",
		"output",
	}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.SetValue(defaults[i])
		ti.CharLimit = 128
		inputs[i] = ti
	}
	inputs[fieldPlugin].Focus()

	fp := filepicker.New()
	fp.AllowedTypes = []string{".vst3", ".component", ".au", ".so", ".dll"}
	fp.CurrentDirectory = vst.DefaultPluginDir()
	fp.DirAllowed = true

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentGreen)

	return Model{
		state:      StateForm,
		backend:    backend,
		inputs:     inputs,
		filePicker: fp,
		spinner:    s,
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs every message while it is active.
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateForm
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			// Bundle directories resolve to their inner binary; an
			// unresolvable selection is used as-is.
			if resolved := vst.ResolveBundle(path); resolved != "" {
				path = resolved
			}
			m.inputs[fieldPlugin].SetValue(path)
			m.state = StateForm
			return m, nil
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateForm:
			return m.updateForm(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case renderDoneMsg:
		m.state = StateResult
		m.jobCount = msg.jobs
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+o":
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "ctrl+r":
		return m.startRun()
	case "enter":
		if m.focus == fieldCount-1 {
			return m.startRun()
		}
		m.setFocus(m.focus + 1)
		return m, nil
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateForm
		m.err = nil
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) startRun() (tea.Model, tea.Cmd) {
	cfg, mappings, values, err := m.formValues()
	if err != nil {
		m.state = StateResult
		m.err = err
		return m, nil
	}

	m.state = StateRendering
	return m, tea.Batch(m.spinner.Tick, m.performRun(cfg, mappings, values))
}

// formValues parses the form into a run configuration.
func (m Model) formValues() (sweep.Config, []sweep.CCMapping, []int, error) {
	var cfg sweep.Config

	pluginPath := strings.TrimSpace(m.inputs[fieldPlugin].Value())
	if pluginPath == "" {
		return cfg, nil, nil, fmt.Errorf("plugin path is required")
	}

	rate, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldSampleRate].Value()))
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("invalid sample rate: %w", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[fieldDuration].Value()), 64)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("invalid duration: %w", err)
	}
	noteMin, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldNoteMin].Value()))
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("invalid note min: %w", err)
	}
	noteMax, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldNoteMax].Value()))
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("invalid note max: %w", err)
	}

	cfg = sweep.Config{
		SampleRate: rate,
		Duration:   duration,
		NoteMin:    noteMin,
		NoteMax:    noteMax,
		OutputDir:  strings.TrimSpace(m.inputs[fieldOutputDir].Value()),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, nil, err
	}

	var specs []string
	for _, spec := range strings.Split(m.inputs[fieldMappings].Value(), ",") {
		if strings.TrimSpace(spec) != "" {
			specs = append(specs, spec)
		}
	}
	mappings, err := sweep.ParseCCMappings(specs)
	if err != nil {
		return cfg, nil, nil, err
	}
	values, err := sweep.ParseCCValues(m.inputs[fieldValues].Value())
	if err != nil {
		return cfg, nil, nil, err
	}
	if err := sweep.ValidateMappings(mappings, values); err != nil {
		return cfg, nil, nil, err
	}

	return cfg, mappings, values, nil
}

func (m Model) performRun(cfg sweep.Config, mappings []sweep.CCMapping, values []int) tea.Cmd {
	pluginPath := strings.TrimSpace(m.inputs[fieldPlugin].Value())
	backend := m.backend
	jobs := sweep.New(cfg.NoteMin, cfg.NoteMax, mappings, values).Len()

	return func() tea.Msg {
		r := render.New(backend)
		if err := r.Load(pluginPath); err != nil {
			return renderDoneMsg{err: err}
		}
		defer func() { _ = r.Close() }()

		if err := r.Run(cfg, mappings, values); err != nil {
			return renderDoneMsg{err: err}
		}
		return renderDoneMsg{jobs: jobs}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateForm:
		s.WriteString(m.viewForm())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateRendering:
		s.WriteString(m.viewRendering())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("tab/↑/↓: fields • ctrl+o: browse plugins • ctrl+r: run • esc: quit"))

	return s.String()
}

func (m Model) viewForm() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" MIDI CC AUTOMATION "))
	s.WriteString("\n\n")

	for i := range m.inputs {
		label := labelStyle
		if i == m.focus {
			label = focusedLabelStyle
		}
		s.WriteString(label.Render(fieldLabels[i]))
		s.WriteString(m.inputs[i].View())
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT PLUGIN "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to form"))

	return s.String()
}

func (m Model) viewRendering() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" RENDERING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Sweeping notes and CC values...\n", m.spinner.View()))
	s.WriteString(statusStyle.Render("  one .wav per note/CC/value combination"))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Run failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Batch render complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Files written: %d\n", m.jobCount))
		s.WriteString(fmt.Sprintf("Output dir:    %s", m.inputs[fieldOutputDir].Value()))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
  ___ __ _ ___  ___ __ _  __| | ___
 / __/ _' / __|/ __/ _' |/ _' |/ _ \
| (_| (_| \__ \ (_| (_| | (_| |  __/
 \___\__,_|___/\___\__,_|\__,_|\___|
`
	return lipgloss.NewStyle().Foreground(accentGreen).Render(logo)
}

// Run starts the TUI application against the given hosting backend.
func Run(backend host.Host) error {
	p := tea.NewProgram(New(backend), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
