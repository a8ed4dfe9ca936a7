package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const defaultSpinnerInterval = 120 * time.Millisecond

// lineSpinner is a Display that redraws one plain-text line. It is used when
// the output cannot host a bubbletea program.
type lineSpinner struct {
	writer        io.Writer
	frameInterval time.Duration
	frames        []rune

	events chan string
	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once

	frameIdx int
}

// NewLineSpinner returns a Display drawing a single text line on w.
func NewLineSpinner(w io.Writer) Display {
	return newCustomLineSpinner(w, defaultSpinnerInterval)
}

func newCustomLineSpinner(w io.Writer, frameInterval time.Duration) *lineSpinner {
	if w == nil {
		w = io.Discard
	}
	sp := &lineSpinner{
		writer:        w,
		frameInterval: frameInterval,
		frames:        []rune{'|', '/', '-', '\\'},
		events:        make(chan string, 8),
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
	go sp.loop()
	return sp
}

func (s *lineSpinner) Status(text string) {
	s.send(strings.TrimSpace(text))
}

func (s *lineSpinner) Progress(written, total int64) {
	s.send("Downloading " + FormatTransfer(written, total))
}

func (s *lineSpinner) send(text string) {
	select {
	case <-s.stopCh:
		return
	default:
	}
	select {
	case s.events <- text:
	default:
	}
}

func (s *lineSpinner) Stop() {
	s.once.Do(func() {
		close(s.stopCh)
		<-s.doneCh
	})
}

func (s *lineSpinner) loop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()

	var current string
	hasText := false

	for {
		select {
		case <-s.stopCh:
			if hasText {
				s.clearLine()
			}
			return
		case text := <-s.events:
			current = text
			hasText = true
			s.render(current)
		case <-ticker.C:
			if hasText {
				s.render(current)
			}
		}
	}
}

func (s *lineSpinner) render(text string) {
	frame := s.frames[s.frameIdx%len(s.frames)]
	s.frameIdx++
	_, _ = fmt.Fprintf(s.writer, "\r\033[2K%c %s", frame, text)
}

func (s *lineSpinner) clearLine() {
	_, _ = fmt.Fprint(s.writer, "\r\033[2K")
}

// quietDisplay discards everything.
type quietDisplay struct{}

func (quietDisplay) Status(string)         {}
func (quietDisplay) Progress(int64, int64) {}
func (quietDisplay) Stop()                 {}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewDisplay picks the richest display f supports: the bubbletea program
// on a terminal and nothing otherwise. plain forces the single-line spinner
// on a terminal.
func NewDisplay(f *os.File, title string, plain bool) Display {
	if !IsTerminal(f) {
		return quietDisplay{}
	}
	if plain {
		return NewLineSpinner(f)
	}
	return NewProgressDisplay(f, title)
}
