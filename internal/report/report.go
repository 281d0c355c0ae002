package report

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"

	"sigscan/internal/signature"
)

// Sink receives reports as the runner produces them. Implementations must be
// safe for concurrent use.
type Sink interface {
	Emit(r signature.Report) error
}

// TextSink writes one report line per match.
type TextSink struct {
	mu sync.Mutex
	w  io.Writer
}

var _ Sink = (*TextSink)(nil)

func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

func (s *TextSink) Emit(r signature.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, r.Line()+"\n"); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

var (
	sourceColor = color.New(color.FgHiBlack).SprintFunc()
	textColor   = color.New(color.FgGreen, color.Bold).SprintFunc()
	bytesColor  = color.New(color.FgYellow).SprintFunc()
	metaColor   = color.New(color.FgCyan).SprintFunc()
)

// ConsoleSink writes report lines with the match column highlighted. The
// output degrades to plain lines when color.NoColor is set.
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

var _ Sink = (*ConsoleSink)(nil)

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) Emit(r signature.Report) error {
	subject := r.Subject()
	if r.Kind == signature.Text {
		subject = textColor(subject)
	} else {
		subject = bytesColor(subject)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, "%s %s %s\n", sourceColor("("+r.Source+")"), subject, metaColor(r.Suffix()))
	return err
}

// MultiSink delivers every report to each of its sinks in order.
type MultiSink []Sink

func (m MultiSink) Emit(r signature.Report) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Counter counts reports and forwards them to Next when it is set.
type Counter struct {
	Next Sink
	n    atomic.Int64
}

func (c *Counter) Emit(r signature.Report) error {
	c.n.Add(1)
	if c.Next != nil {
		return c.Next.Emit(r)
	}
	return nil
}

func (c *Counter) Count() int64 {
	return c.n.Load()
}

// Summary is the closing line of a scan.
func Summary(matches int64) string {
	if matches == 0 {
		return "no signatures matched"
	}
	if matches == 1 {
		return "1 signature matched"
	}
	return fmt.Sprintf("%d signatures matched", matches)
}
