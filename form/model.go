package form

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gfscan/gfscan/report"
	"github.com/gfscan/gfscan/session"
	log "github.com/sirupsen/logrus"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")). // White
			Background(lipgloss.Color("#000000")). // Black
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff5f5f")). // Soft red
			Bold(true)

	openStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22aa22")) // Green

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#585858")) // Dark Gray

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676")) // Dimmed Gray
)

// Opener creates the log sink for a new scan.
type Opener func() (*report.LogFile, error)

type eventMsg struct {
	event session.Event
}

type doneMsg struct{}

type Model struct {
	cfg     session.Config
	openLog Opener
	ctx     context.Context

	input    textinput.Model
	output   viewport.Model
	spinner  spinner.Model
	lines    []string
	status   string
	ready    bool
	width    int
	session  *session.Session
	events   <-chan session.Event
	logFile  *report.LogFile
	quitting bool
}

func New(ctx context.Context, cfg session.Config, openLog Opener) Model {
	input := textinput.New()
	input.Placeholder = "hostname or address"
	input.Prompt = "Host: "
	input.CharLimit = 255
	input.Focus()

	return Model{
		cfg:     cfg,
		openLog: openLog,
		ctx:     ctx,
		input:   input,
		output:  viewport.New(80, 20),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:   80,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Running() bool {
	return m.session != nil
}

func (m Model) Status() string {
	return m.status
}

func (m Model) Lines() []string {
	return m.lines
}

func waitForEvent(events <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return eventMsg{event: e}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.output.Width = msg.Width - 2
		m.output.Height = msg.Height - 8
		if m.output.Height < 3 {
			m.output.Height = 3
		}
		m.input.Width = msg.Width - 10
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			if m.session != nil {
				m.session.Stop()
				return m, nil
			}
			return m, tea.Quit
		case tea.KeyEsc:
			if m.session != nil {
				m.session.Stop()
				m.status = "Stopping..."
			}
			return m, nil
		case tea.KeyEnter:
			if m.session != nil {
				return m, nil
			}
			return m.start()
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.output, cmd = m.output.Update(msg)
			return m, cmd
		}

	case eventMsg:
		m.handle(msg.event)
		return m, waitForEvent(m.events)

	case doneMsg:
		m.finish()
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		if m.session == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) start() (tea.Model, tea.Cmd) {
	m.lines = nil
	m.status = ""
	m.output.SetContent("")

	if m.openLog != nil {
		logFile, err := m.openLog()
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.logFile = logFile
	}

	m.session = session.New(m.cfg, m.input.Value())
	m.events = m.session.Run(m.ctx)
	return m, tea.Batch(waitForEvent(m.events), m.spinner.Tick)
}

func (m *Model) handle(e session.Event) {
	if m.logFile != nil {
		m.logFile.Handle(e)
	}

	switch e.Kind {
	case session.StatusUpdate:
		m.status = e.Text
		return
	case session.Error:
		m.status = e.Text + ", please try another host"
	}

	for _, line := range report.Lines(e) {
		if e.Kind == session.PortResult && e.Result.IsOpen() {
			line = openStyle.Render(line)
		}
		m.lines = append(m.lines, line)
	}
	m.output.SetContent(strings.Join(m.lines, "\n"))
	m.output.GotoBottom()
}

func (m *Model) finish() {
	if m.logFile != nil {
		if err := m.logFile.Close(); err != nil {
			log.Errorf("Failed to close scan log: %s", err)
		}
		m.logFile = nil
	}
	m.session = nil
	m.events = nil
}

func (m Model) View() string {
	if m.quitting && m.session == nil {
		return ""
	}

	b := strings.Builder{}
	b.WriteString(titleStyle.Render("Port Scanner - Enter a hostname and press Enter to scan"))
	b.WriteString("\n")

	status := m.status
	if m.session != nil {
		status = m.spinner.View() + " " + status
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(paneStyle.Render(m.output.View()))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("enter: scan • esc: stop scan • pgup/pgdn: scroll • ctrl+c: quit"))
	return b.String()
}
