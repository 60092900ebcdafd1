// Package spinner provides an in-place progress line for silent command
// runs. It shows a spinning indicator, a completed/total counter, and the
// latest output line from the running command, updating a single terminal
// row instead of streaming output.
package spinner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Progress displays a spinner with a step counter and ticker-style status
// updates. Subprocess output piped through Writer() appears next to the
// spinner; Step() advances the counter as commands finish.
type Progress struct {
	program *tea.Program
	reader  *io.PipeReader
	writer  *io.PipeWriter
	msgCh   chan tea.Msg
	done    chan struct{}
	wg      sync.WaitGroup
	output  io.Writer
	total   int
}

// New creates a Progress for a run of total commands, writing its display
// to output (typically os.Stderr). If output is nil, os.Stderr is used.
func New(output io.Writer, total int) *Progress {
	if output == nil {
		output = os.Stderr
	}

	reader, writer := io.Pipe()
	return &Progress{
		reader: reader,
		writer: writer,
		msgCh:  make(chan tea.Msg, 100), // Buffer to avoid blocking the pipe reader
		done:   make(chan struct{}),
		output: output,
		total:  total,
	}
}

// Writer returns the io.Writer that should receive subprocess output.
// Lines written here appear in the status display.
func (p *Progress) Writer() io.Writer {
	return p.writer
}

// Step marks one command as finished, advancing the counter. The line is
// shown until the next output arrives.
func (p *Progress) Step(line string) {
	select {
	case p.msgCh <- stepMsg(line):
	case <-p.done:
	}
}

// Start begins the progress display. This blocks until Stop() is called.
// Call it in a goroutine if work happens while the display runs.
func (p *Progress) Start() error {
	p.wg.Add(1)
	go p.readLines()

	width := 80
	if fd := int(os.Stderr.Fd()); term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}

	m := newModel(p.msgCh, width, p.total)

	p.program = tea.NewProgram(m,
		tea.WithOutput(p.output),
		tea.WithoutSignalHandler(), // Let parent handle signals
	)

	_, err := p.program.Run()

	p.wg.Wait()

	return err
}

// Stop stops the display and cleans up resources. The progress line is
// cleared from the terminal.
func (p *Progress) Stop() {
	// Close the writer to signal EOF to the line reader
	_ = p.writer.Close()

	close(p.done)

	if p.program != nil {
		p.program.Quit()
	}
}

// readLines reads subprocess output from the pipe and forwards non-empty
// lines to the model.
func (p *Progress) readLines() {
	defer p.wg.Done()
	defer p.reader.Close()

	scanner := bufio.NewScanner(p.reader)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		select {
		case p.msgCh <- lineMsg(line):
		case <-p.done:
			return
		}
	}
}

// model is the bubbletea model for the progress display.
type model struct {
	spinner    spinner.Model
	statusLine string
	width      int
	total      int
	completed  int
	msgCh      <-chan tea.Msg
	quitting   bool
}

// lineMsg carries a new output line from the pipe.
type lineMsg string

// stepMsg advances the completed counter; its value labels the finished
// command.
type stepMsg string

var counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

func newModel(msgCh <-chan tea.Msg, width, total int) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		spinner: s,
		width:   width,
		total:   total,
		msgCh:   msgCh,
	}
}

// Init implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForMsg(m.msgCh),
	)
}

// Update implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Allow ctrl+c to quit
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case lineMsg:
		m.statusLine = string(msg)
		return m, waitForMsg(m.msgCh)

	case stepMsg:
		m.completed++
		m.statusLine = string(msg)
		return m, waitForMsg(m.msgCh)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.QuitMsg:
		m.quitting = true
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) View() string {
	if m.quitting {
		return "" // Clear the line on exit
	}

	counter := ""
	if m.total > 1 {
		counter = counterStyle.Render(fmt.Sprintf("[%d/%d] ", m.completed, m.total))
	}

	// Spinner is typically 2 chars + 1 space
	maxLineWidth := m.width - 3 - lipgloss.Width(counter)
	if maxLineWidth < 10 {
		maxLineWidth = 10
	}

	line := truncate(m.statusLine, maxLineWidth)
	return m.spinner.View() + " " + counter + line
}

// waitForMsg returns a command that waits for the next line or step.
func waitForMsg(msgCh <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-msgCh
		if !ok {
			return tea.Quit()
		}
		return msg
	}
}

// truncate shortens a string to fit within maxWidth, adding "..." when it
// was cut.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return ""
	}
	if len(s) <= maxWidth {
		return s
	}
	return s[:maxWidth-3] + "..."
}
