// Package diag holds the failure taxonomy shared by the solvers and the
// non-fatal diagnostics they attach to their results.
package diag

import (
	"errors"
	"fmt"
)

// Hard failures. Solvers wrap these with context; match with errors.Is.
var (
	ErrInvalidMagnitude     = errors.New("invalid magnitude")
	ErrUnknownUnit          = errors.New("unknown unit")
	ErrUnsupportedCRS       = errors.New("unsupported CRS")
	ErrInvalidDivisionCount = errors.New("invalid division count")
	ErrProjectionFailure    = errors.New("projection failure")
)

// Code identifies a soft condition.
type Code int

const (
	ConflictingSpecification Code = iota
	DegenerateBearing
	ExceedsViewport
	CornerClipped
	DegreeCRS
	IgnoredUnit
	DefaultLength
)

// String returns a string representation of the code
func (c Code) String() string {
	switch c {
	case ConflictingSpecification:
		return "ConflictingSpecification"
	case DegenerateBearing:
		return "DegenerateBearing"
	case ExceedsViewport:
		return "ExceedsViewport"
	case CornerClipped:
		return "CornerClipped"
	case DegreeCRS:
		return "DegreeCRS"
	case IgnoredUnit:
		return "IgnoredUnit"
	case DefaultLength:
		return "DefaultLength"
	default:
		return "Unknown"
	}
}

// Level is the severity of a diagnostic.
type Level int

const (
	Info Level = iota
	Warning
)

func (l Level) String() string {
	if l == Warning {
		return "warning"
	}
	return "info"
}

// Diagnostic is a recoverable condition recorded next to a best-effort result.
type Diagnostic struct {
	Code    Code
	Level   Level
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s]: %s", d.Level, d.Code, d.Message)
}

// Warnf builds a warning-level diagnostic.
func Warnf(code Code, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Code: code, Level: Warning, Message: fmt.Sprintf(format, args...)}
}

// Infof builds an info-level diagnostic.
func Infof(code Code, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Code: code, Level: Info, Message: fmt.Sprintf(format, args...)}
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// Has reports whether any diagnostic carries the given code.
func (l List) Has(code Code) bool {
	for _, d := range l {
		if d.Code == code {
			return true
		}
	}
	return false
}

// Warnings returns only the warning-level entries.
func (l List) Warnings() List {
	var out List
	for _, d := range l {
		if d.Level == Warning {
			out = append(out, d)
		}
	}
	return out
}
