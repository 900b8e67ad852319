package hero

import (
	"fmt"
	"reflect"
)

// Logger receives one line per step phase while formulas run.
// *log.StepLogger in this module adapts a slog.Logger to it.
type Logger interface {
	Info(msg string)
	Error(msg string)
}

// logger is the process-wide slot. It is unset by default.
var logger Logger

// SetLogger installs l as the process-wide step logger. Passing nil removes
// it; running formulas without a logger is always allowed.
func SetLogger(l Logger) {
	logger = l
}

// CurrentLogger returns the installed logger, or nil.
func CurrentLogger() Logger {
	return logger
}

// Phases are padded to the width of "before" so lines align.
const (
	phaseBefore = "before"
	phaseAfter  = "after "
	phaseError  = "error "
)

func logLine(phase, formula, step string, target any, opts Options) string {
	return fmt.Sprintf("HERO %s %s -> %s Context: %s Options: %s",
		phase, formula, step, Inspect(target), Inspect(opts))
}

// Inspect renders v for log lines. Pointers are followed so the current
// state of a mutated target is shown rather than its address.
func Inspect(v any) string {
	if v == nil {
		return "<nil>"
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "<nil>"
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "<nil>"
		}
		rv = rv.Elem()
	}
	if !rv.CanInterface() {
		return fmt.Sprintf("%v", v)
	}
	return fmt.Sprintf("%v", rv.Interface())
}
