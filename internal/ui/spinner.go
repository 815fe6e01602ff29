package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Reporter lets a task running under Spin talk to the user.
type Reporter interface {
	// Status replaces the text next to the spinner.
	Status(text string)
	// Println prints a line above the spinner.
	Println(text string)
}

type taskResultMsg struct {
	data any
	err  error
}

type statusMsg string

type spinnerModel struct {
	spinner  spinner.Model
	text     string
	task     func() (any, error)
	result   any
	err      error
	quitting bool
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			res, err := m.task()
			return taskResultMsg{data: res, err: err}
		},
	)
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.err = fmt.Errorf("cancelled by user")
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statusMsg:
		m.text = string(msg)
		return m, nil

	case taskResultMsg:
		m.result = msg.data
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit

	default:
		return m, nil
	}
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), textStyle.Render(m.text))
}

type programReporter struct {
	p *tea.Program
}

func (r *programReporter) Status(text string) {
	r.p.Send(statusMsg(text))
}

func (r *programReporter) Println(text string) {
	r.p.Println(text)
}

// Spin runs a blocking task with a spinner overlay on stderr.
// The task gets a Reporter for status updates and messages.
func Spin(text string, task func(r Reporter) (any, error)) (any, error) {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	reporter := &programReporter{}
	m := spinnerModel{
		spinner: s,
		text:    text,
		task:    func() (any, error) { return task(reporter) },
	}

	// Use stderr to avoid polluting stdout
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	reporter.p = p
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	fm, ok := finalModel.(spinnerModel)
	if !ok {
		return nil, fmt.Errorf("internal error: invalid model type")
	}

	return fm.result, fm.err
}

// PlainReporter writes status updates and messages as plain lines, for
// non-interactive terminals.
type PlainReporter struct {
	W io.Writer
}

func (r PlainReporter) Status(text string) {
	fmt.Fprintln(r.W, textStyle.Render(text))
}

func (r PlainReporter) Println(text string) {
	fmt.Fprintln(r.W, text)
}
