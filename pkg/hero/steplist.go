package hero

import (
	"context"
	"slices"

	"github.com/tombee/hero/pkg/errors"
)

// StepList is the ordered, name-unique set of steps owned by one formula.
// It is not safe for concurrent use.
type StepList struct {
	formula    string
	entries    []listEntry
	middleware []Middleware
}

// listEntry pairs a registered step with the form actually invoked, which is
// the step wrapped by any middleware.
type listEntry struct {
	Entry
	call Step
}

// NewStepList creates an empty step list for the named formula. Middleware
// is applied, first to last as outermost to innermost, to each step added.
func NewStepList(formula string, middleware ...Middleware) *StepList {
	return &StepList{
		formula:    formula,
		middleware: middleware,
	}
}

// Formula returns the name of the formula this list belongs to.
func (l *StepList) Formula() string {
	return l.formula
}

// Add registers a step from positional arguments.
//
// With one argument it is the step and its name is inferred (see InferName).
// With two arguments they are the name and the step. No arguments, more than
// two, or a step whose name cannot be inferred is a *errors.UsageError.
//
// If a step with the resolved name already exists it is removed and the new
// step is appended at the end.
func (l *StepList) Add(args ...any) error {
	switch len(args) {
	case 0:
		return anonymousStep()
	case 1:
		name := InferName(args[0])
		if name == "" {
			return &errors.UsageError{
				Op:      "add step",
				Message: "cannot infer a name for an unnamed step",
				Hint:    "pass the name explicitly: Add(name, step)",
			}
		}
		step, err := AsStep(args[0])
		if err != nil {
			return err
		}
		l.put(name, step)
		return nil
	case 2:
		name, err := stepName(args[0])
		if err != nil {
			return err
		}
		step, err := AsStep(args[1])
		if err != nil {
			return err
		}
		l.put(name, step)
		return nil
	}
	return &errors.UsageError{
		Op:      "add step",
		Message: "too many arguments",
		Hint:    "use Add(step) or Add(name, step)",
	}
}

// AddFunc registers fn as a step. Exactly one argument, the step name, must
// accompany it; passing a step as well, or a nil fn, is a usage error.
func (l *StepList) AddFunc(fn StepFunc, args ...any) error {
	if fn == nil {
		return &errors.UsageError{
			Op:      "add step",
			Message: "step func is nil",
			Hint:    "use Add(name, step) to register a step value",
		}
	}
	switch len(args) {
	case 0:
		return anonymousStep()
	case 1:
		name, err := stepName(args[0])
		if err != nil {
			return err
		}
		l.put(name, fn)
		return nil
	}
	return &errors.UsageError{
		Op:      "add step",
		Message: "a step func cannot be combined with an explicit step",
		Hint:    "use AddFunc(fn, name) or Add(name, step)",
	}
}

func anonymousStep() error {
	return &errors.UsageError{
		Op:      "add step",
		Message: "anonymous step not allowed",
		Hint:    "give the step a name",
	}
}

func (l *StepList) put(name string, step Step) {
	l.Remove(name)

	call := step
	for i := len(l.middleware) - 1; i >= 0; i-- {
		call = l.middleware[i](l.formula, name, call)
	}
	l.entries = append(l.entries, listEntry{
		Entry: Entry{Name: name, Step: step},
		call:  call,
	})
}

// Remove deletes the named step and reports whether it was present.
func (l *StepList) Remove(name string) bool {
	i := l.index(name)
	if i < 0 {
		return false
	}
	l.entries = slices.Delete(l.entries, i, i+1)
	return true
}

func (l *StepList) index(name string) int {
	return slices.IndexFunc(l.entries, func(e listEntry) bool {
		return e.Name == name
	})
}

// Steps returns the registered steps in execution order.
func (l *StepList) Steps() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Entry
	}
	return out
}

// Names returns the step names in execution order.
func (l *StepList) Names() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Name
	}
	return out
}

// Lookup returns the named step.
func (l *StepList) Lookup(name string) (Entry, bool) {
	i := l.index(name)
	if i < 0 {
		return Entry{}, false
	}
	return l.entries[i].Entry, true
}

// Len returns the number of steps.
func (l *StepList) Len() int {
	return len(l.entries)
}

// Update runs every step in order with the same target and options.
//
// When a Logger is installed each call is bracketed by a before line and an
// after line, or an error line if the step fails. The first failure stops the
// run and is returned unchanged; steps that already ran are not undone.
//
// The step sequence is fixed when Update starts, so steps added or removed
// by a running step take effect on the next run.
func (l *StepList) Update(ctx context.Context, target any, opts Options) error {
	if opts == nil {
		opts = Options{}
	}
	entries := slices.Clone(l.entries)
	for _, e := range entries {
		sink := CurrentLogger()
		if sink != nil {
			sink.Info(logLine(phaseBefore, l.formula, e.Name, target, opts))
		}
		if err := e.call.Call(ctx, target, opts); err != nil {
			if sink != nil {
				sink.Error(logLine(phaseError, l.formula, e.Name, target, opts) + " Error: " + err.Error())
			}
			return err
		}
		if sink != nil {
			sink.Info(logLine(phaseAfter, l.formula, e.Name, target, opts))
		}
	}
	return nil
}
