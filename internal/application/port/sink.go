package port

import "time"

type Sink interface {
	// Line: plain output line
	WriteLine(line string) error
	// Snapshot line: a timestamped line followed by an empty spacer line
	WriteSnapshot(ts time.Time, line string) error
	// Normal newline (for logs)
	NewLine() error
}
