package hero

import (
	"context"
	"fmt"
	"strings"
)

// Formula is a named business process. It owns exactly one StepList for its
// whole life.
type Formula struct {
	name     string
	steps    *StepList
	attached bool
}

func newFormula(name string, middleware ...Middleware) *Formula {
	return &Formula{
		name:     name,
		steps:    NewStepList(name, middleware...),
		attached: true,
	}
}

// Name returns the formula name.
func (f *Formula) Name() string {
	return f.name
}

// TypeName returns a display identifier derived from the name, for example
// "HeroFormulaMyFormula" for "my_formula".
func (f *Formula) TypeName() string {
	return typeNamePrefix + SanitizeName(f.name)
}

// StepList returns the formula's step list.
func (f *Formula) StepList() *StepList {
	return f.steps
}

// AddStep adds a step; see StepList.Add for the accepted arguments.
func (f *Formula) AddStep(args ...any) error {
	return f.steps.Add(args...)
}

// AddStepFunc adds fn as a step named by args; see StepList.AddFunc.
func (f *Formula) AddStepFunc(fn StepFunc, args ...any) error {
	return f.steps.AddFunc(fn, args...)
}

// Steps returns the formula's steps in execution order.
func (f *Formula) Steps() []Entry {
	return f.steps.Steps()
}

// Run executes the formula's steps in order against target and opts. A nil
// opts is replaced by an empty Options. The first step error is returned
// unchanged.
func (f *Formula) Run(ctx context.Context, target any, opts Options) error {
	return f.steps.Update(ctx, target, opts)
}

// Notify is an alias for Run.
func (f *Formula) Notify(ctx context.Context, target any, opts Options) error {
	return f.Run(ctx, target, opts)
}

// Observers returns 1 while the formula is held by a registry and 0 once
// that registry has been reset. A detached formula still runs when called
// directly.
func (f *Formula) Observers() int {
	if f.attached {
		return 1
	}
	return 0
}

func (f *Formula) detach() {
	f.attached = false
}

// Report lists the formula name followed by its numbered steps:
//
//	checkout
//	  1. validate
//	  2. charge
func (f *Formula) Report() string {
	lines := make([]string, 0, f.steps.Len()+1)
	lines = append(lines, f.name)
	for i, name := range f.steps.Names() {
		lines = append(lines, fmt.Sprintf("%3d. %s", i+1, name))
	}
	return strings.Join(lines, "\n")
}

// String implements fmt.Stringer.
func (f *Formula) String() string {
	return f.Report()
}
