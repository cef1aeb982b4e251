package console

import (
	"fmt"
	"io"
	"os"
	"time"

	"stockfolio/internal/application/port"
)

// Separator closes every message block in interactive output.
const Separator = "_______________________________________"

type Sink struct {
	out io.Writer
}

// NewSink writes to w, or stdout when w is nil.
func NewSink(w io.Writer) *Sink {
	if w == nil {
		w = os.Stdout
	}
	return &Sink{out: w}
}

// Writer is the underlying output, for prompts without a trailing newline.
func (s *Sink) Writer() io.Writer { return s.out }

func (s *Sink) WriteLine(line string) error {
	_, err := fmt.Fprintln(s.out, line)
	return err
}

// WriteSnapshot prints a timestamped line followed by an empty spacer line.
func (s *Sink) WriteSnapshot(ts time.Time, line string) error {
	_, err := fmt.Fprintf(s.out, "%s %s\n\n", ts.Format("2006-01-02 15:04:05"), line)
	return err
}

func (s *Sink) NewLine() error {
	_, err := fmt.Fprint(s.out, "\n")
	return err
}

// Block writes lines and closes them with the separator.
func (s *Sink) Block(lines ...string) error {
	for _, l := range lines {
		if err := s.WriteLine(l); err != nil {
			return err
		}
	}
	return s.WriteLine(Separator)
}

var _ port.Sink = (*Sink)(nil)
