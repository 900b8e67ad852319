package steps

import (
	"context"
	"fmt"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/tombee/hero/pkg/hero"
)

func compile(source string, asBool bool) (*vm.Program, error) {
	if source == "" {
		return nil, fmt.Errorf("expression is empty")
	}
	// target and options are bound at run time
	opts := []expr.Option{expr.AllowUndefinedVariables()}
	if asBool {
		opts = append(opts, expr.AsBool())
	}
	prog, err := expr.Compile(source, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression %q: %w", source, err)
	}
	return prog, nil
}

func evalBool(prog *vm.Program, target any, opts hero.Options) (bool, error) {
	out, err := expr.Run(prog, env(target, opts))
	if err != nil {
		return false, fmt.Errorf("expression evaluation failed: %w", err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T (%v)", out, out)
	}
	return b, nil
}

// Set stores the result of each expression in the run's options.
type Set struct {
	keys     []string
	programs map[string]*vm.Program
}

// NewSet compiles values, a map from option key to expression. Keys are
// assigned in sorted order.
func NewSet(values map[string]string) (*Set, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("set needs at least one key")
	}
	s := &Set{programs: make(map[string]*vm.Program, len(values))}
	for key, source := range values {
		prog, err := compile(source, false)
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
		s.keys = append(s.keys, key)
		s.programs[key] = prog
	}
	slices.Sort(s.keys)
	return s, nil
}

// Keys returns the option keys in assignment order.
func (s *Set) Keys() []string {
	return slices.Clone(s.keys)
}

// Call implements hero.Step.
func (s *Set) Call(_ context.Context, target any, opts hero.Options) error {
	for _, key := range s.keys {
		out, err := expr.Run(s.programs[key], env(target, opts))
		if err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		opts[key] = out
	}
	return nil
}

// AssertionError is returned by an Assert step whose condition is false.
type AssertionError struct {
	Expression string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s", e.Expression)
}

// Assert fails the run unless its condition holds.
type Assert struct {
	source  string
	program *vm.Program
}

// NewAssert compiles a boolean condition.
func NewAssert(condition string) (*Assert, error) {
	prog, err := compile(condition, true)
	if err != nil {
		return nil, err
	}
	return &Assert{source: condition, program: prog}, nil
}

// Call implements hero.Step.
func (s *Assert) Call(_ context.Context, target any, opts hero.Options) error {
	ok, err := evalBool(s.program, target, opts)
	if err != nil {
		return err
	}
	if !ok {
		return &AssertionError{Expression: s.source}
	}
	return nil
}

// When runs Step only if its condition holds.
type When struct {
	Step    hero.Step
	source  string
	program *vm.Program
}

// NewWhen compiles condition and wraps step.
func NewWhen(condition string, step hero.Step) (*When, error) {
	if step == nil {
		return nil, fmt.Errorf("when needs a step")
	}
	prog, err := compile(condition, true)
	if err != nil {
		return nil, err
	}
	return &When{Step: step, source: condition, program: prog}, nil
}

// Call implements hero.Step.
func (s *When) Call(ctx context.Context, target any, opts hero.Options) error {
	ok, err := evalBool(s.program, target, opts)
	if err != nil {
		return fmt.Errorf("when %s: %w", s.source, err)
	}
	if !ok {
		return nil
	}
	return s.Step.Call(ctx, target, opts)
}
