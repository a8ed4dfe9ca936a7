package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

// Display shows the state of a running workflow.
type Display interface {
	// Status shows a spinner with text.
	Status(text string)
	// Progress switches to a progress bar for a transfer of total bytes.
	// A total <= 0 keeps the spinner and shows the byte count only.
	Progress(written, total int64)
	Stop()
}

// progressModel is the bubbletea model behind ProgressDisplay.
type progressModel struct {
	spinner  spinner.Model
	progress progress.Model

	title      string
	detail     string
	percent    float64
	isProgress bool

	ready bool
	done  bool

	updates chan progressUpdate
}

type progressUpdate struct {
	detail     string
	percent    float64
	isProgress bool
	done       bool
}

type progressUpdateMsg progressUpdate

func newProgressModel(title string) *progressModel {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = styleSpinner

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return &progressModel{
		spinner:  s,
		progress: p,
		title:    title,
		updates:  make(chan progressUpdate, 16),
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForUpdate(),
	)
}

func (m *progressModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		return progressUpdateMsg(<-m.updates)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		if w := msg.Width - 8; w > 10 && w < 60 {
			m.progress.Width = w
		}
		return m, nil

	case progressUpdateMsg:
		m.ready = true
		m.detail = msg.detail
		m.percent = msg.percent
		m.isProgress = msg.isProgress

		if msg.done {
			m.done = true
			return m, tea.Quit
		}

		var cmds []tea.Cmd
		if m.isProgress {
			cmds = append(cmds, m.progress.SetPercent(m.percent))
		}
		cmds = append(cmds, m.waitForUpdate())
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m *progressModel) View() string {
	if !m.ready || m.done {
		return ""
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(styleTitle.Render(m.title))
		b.WriteString("\n")
	}

	if m.isProgress {
		b.WriteString(m.progress.View())
		b.WriteString("\n")
		b.WriteString(styleCount.Render(m.detail))
	} else {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(styleStatus.Render(m.detail))
	}

	return styleContainer.Render(b.String())
}

func (m *progressModel) sendUpdate(u progressUpdate) {
	select {
	case m.updates <- u:
	default:
		// Drop if channel is full
	}
}

// finish queues the final update, discarding stale ones so it always fits.
// Callers must have stopped sending.
func (m *progressModel) finish() {
	for {
		select {
		case <-m.updates:
		default:
			m.updates <- progressUpdate{done: true}
			return
		}
	}
}

// ProgressDisplay runs an inline bubbletea program showing a spinner or a
// download progress bar.
type ProgressDisplay struct {
	program *tea.Program
	model   *progressModel
	done    chan struct{}
	mu      sync.Mutex
	stopped bool
}

// NewProgressDisplay starts the display on w. Input is not read so the
// backend keeps the terminal's stdin.
func NewProgressDisplay(w io.Writer, title string) *ProgressDisplay {
	model := newProgressModel(title)

	program := tea.NewProgram(
		model,
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(), // We handle signals ourselves
	)

	d := &ProgressDisplay{
		program: program,
		model:   model,
		done:    make(chan struct{}),
	}

	go func() {
		_, _ = program.Run()
		close(d.done)
	}()

	return d
}

// Status implements Display.
func (d *ProgressDisplay) Status(text string) {
	d.send(progressUpdate{detail: text})
}

// Progress implements Display.
func (d *ProgressDisplay) Progress(written, total int64) {
	d.send(progressFor(written, total))
}

func (d *ProgressDisplay) send(u progressUpdate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.model.sendUpdate(u)
}

// Stop implements Display.
func (d *ProgressDisplay) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.mu.Unlock()

	d.model.finish()

	select {
	case <-d.done:
	case <-time.After(500 * time.Millisecond):
		d.program.Kill()
		<-d.done
	}
}

func progressFor(written, total int64) progressUpdate {
	if total <= 0 {
		return progressUpdate{detail: fmt.Sprintf("Downloading %s", humanize.Bytes(uint64(max(written, 0))))}
	}
	percent := float64(written) / float64(total)
	if percent > 1 {
		percent = 1
	}
	return progressUpdate{
		isProgress: true,
		percent:    percent,
		detail:     FormatTransfer(written, total),
	}
}

// FormatTransfer renders "written / total (pct)".
func FormatTransfer(written, total int64) string {
	if written < 0 {
		written = 0
	}
	if total <= 0 {
		return humanize.Bytes(uint64(written))
	}
	pct := float64(written) / float64(total) * 100
	if pct > 100 {
		pct = 100
	}
	return fmt.Sprintf("%s / %s (%.0f%%)", humanize.Bytes(uint64(written)), humanize.Bytes(uint64(total)), pct)
}
