package fru

import (
	"fmt"
	"os"
)

// Policy is the diagnostic sink both engines report into. Info and
// Warning never affect control flow. DecodeError is called for conditions
// the FRU document explicitly forbids but that the decoder can recover
// from; returning a non-nil error aborts the decode with that error,
// returning nil lets it continue with best-effort values. Structural
// failures (missing bytes, overlapping areas) never consult the policy.
//
// A policy used from multiple goroutines must itself be safe for
// concurrent use; the engines hold no other shared state.
type Policy interface {
	Info(msg string)
	Warning(msg string)
	DecodeError(msg string) error
}

// stderrPolicy mirrors the classic behavior: diagnostics to stderr,
// decode errors fatal (strict) or downgraded to logged errors (tolerant).
type stderrPolicy struct {
	tolerant bool
}

func (p stderrPolicy) Info(msg string)    { fmt.Fprintf(os.Stderr, "Inf: %s\n", msg) }
func (p stderrPolicy) Warning(msg string) { fmt.Fprintf(os.Stderr, "Wrn: %s\n", msg) }

func (p stderrPolicy) DecodeError(msg string) error {
	if p.tolerant {
		fmt.Fprintf(os.Stderr, "Err: %s\n", msg)
		return nil
	}
	return &DecodeError{msg: msg}
}

// Strict returns the default policy: info and warnings to stderr, decode
// errors abort.
func Strict() Policy {
	return stderrPolicy{}
}

// Tolerant returns a policy that logs decode errors to stderr and keeps
// going.
func Tolerant() Policy {
	return stderrPolicy{tolerant: true}
}

// Severity classifies collected diagnostics.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Diagnostic is one recorded policy event.
type Diagnostic struct {
	Severity Severity
	Message  string
}

// Collector is a Policy that records every diagnostic instead of logging.
// With StrictErrors set it aborts on decode errors like Strict; otherwise
// it records them and continues. The zero value is tolerant. A Collector
// is not safe for concurrent use; give each decode its own.
type Collector struct {
	StrictErrors bool
	Diagnostics  []Diagnostic
}

func (c *Collector) Info(msg string) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{SeverityInfo, msg})
}

func (c *Collector) Warning(msg string) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{SeverityWarning, msg})
}

func (c *Collector) DecodeError(msg string) error {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{SeverityError, msg})
	if c.StrictErrors {
		return &DecodeError{msg: msg}
	}
	return nil
}

// Warnings returns the recorded diagnostics at warning severity or above.
func (c *Collector) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.Diagnostics {
		if d.Severity >= SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}
