package render

import (
	"errors"
	"fmt"
)

// ErrStop is returned from a frame function to end Engine.Run cleanly.
var ErrStop = errors.New("render: stop")

// Severity classifies a backend failure.
type Severity int

const (
	// SeverityRecoverable failures are logged and the frame continues.
	SeverityRecoverable Severity = iota
	// SeverityFatal failures leave the backend without a usable handle.
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityRecoverable:
		return "recoverable"
	case SeverityFatal:
		return "fatal"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Failure is an error reported by a backend call.
type Failure struct {
	Op       string
	Severity Severity
	Err      error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", f.Op, f.Severity, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Recoverable wraps err as a recoverable failure of op. It returns nil for a nil err.
func Recoverable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Failure{Op: op, Severity: SeverityRecoverable, Err: err}
}

// Fatal wraps err as a fatal failure of op. It returns nil for a nil err.
func Fatal(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Failure{Op: op, Severity: SeverityFatal, Err: err}
}

// IsFatal reports whether err carries a fatal Failure anywhere in its chain.
func IsFatal(err error) bool {
	var f *Failure
	if errors.As(err, &f) {
		return f.Severity == SeverityFatal
	}
	return false
}
