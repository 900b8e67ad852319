package hero

import (
	"context"
	"fmt"
	"reflect"

	"github.com/tombee/hero/pkg/errors"
)

// Options is the side-channel bag passed to every step of a run. It is a map,
// so steps that write to it are visible to later steps and to the caller.
type Options map[string]any

// Step is a unit of work attached to a formula.
//
// target is the primary subject of the run. Steps that need to mutate it
// expect the caller to pass a pointer, map or slice.
type Step interface {
	Call(ctx context.Context, target any, opts Options) error
}

// StepFunc adapts an ordinary function to the Step interface.
type StepFunc func(ctx context.Context, target any, opts Options) error

// Call implements Step.
func (f StepFunc) Call(ctx context.Context, target any, opts Options) error {
	return f(ctx, target, opts)
}

// Middleware decorates a step when it is added to a formula. It receives the
// formula and step names so instrumentation can label what it records.
type Middleware func(formula, step string, next Step) Step

// Entry is a registered step as returned by StepList.Steps.
type Entry struct {
	Name string
	Step Step
}

var stepType = reflect.TypeFor[Step]()

// AsStep converts the callable forms accepted by Add into a Step:
//
//   - a value implementing Step, used as-is
//   - func(context.Context, any, Options) error
//   - func(any, Options) error
//   - func(any, Options)
//   - a reflect.Type whose value or pointer implements Step; a zero value is
//     allocated once and reused for every call
func AsStep(v any) (Step, error) {
	switch s := v.(type) {
	case nil:
		return nil, &errors.UsageError{Op: "add step", Message: "step is nil"}
	case reflect.Type:
		return instantiate(s)
	case Step:
		return s, nil
	case func(context.Context, any, Options) error:
		return StepFunc(s), nil
	case func(any, Options) error:
		return StepFunc(func(_ context.Context, target any, opts Options) error {
			return s(target, opts)
		}), nil
	case func(any, Options):
		return StepFunc(func(_ context.Context, target any, opts Options) error {
			s(target, opts)
			return nil
		}), nil
	}
	return nil, &errors.UsageError{
		Op:      "add step",
		Message: fmt.Sprintf("%T is not callable as a step", v),
		Hint:    "implement Call(ctx, target, opts) or pass a StepFunc",
	}
}

func instantiate(t reflect.Type) (Step, error) {
	base := derefType(t)
	ptr := reflect.New(base)
	if ptr.Type().Implements(stepType) {
		return ptr.Interface().(Step), nil
	}
	if base.Implements(stepType) {
		return ptr.Elem().Interface().(Step), nil
	}
	return nil, &errors.UsageError{
		Op:      "add step",
		Message: fmt.Sprintf("type %s does not implement Step", base),
	}
}

var stepFuncType = reflect.TypeFor[StepFunc]()

// InferName returns the name a step gets when none is given explicitly: the
// type's own name for a reflect.Type, otherwise the name of the value's
// runtime type. Unnamed types, including plain funcs, and StepFunc have no
// inferable name and yield an empty string.
func InferName(v any) string {
	if v == nil {
		return ""
	}
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	t = derefType(t)
	if t == stepFuncType {
		return ""
	}
	return t.Name()
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// stepName converts an explicit name argument into a string.
func stepName(v any) (string, error) {
	var name string
	switch n := v.(type) {
	case string:
		name = n
	case fmt.Stringer:
		name = n.String()
	default:
		return "", &errors.UsageError{
			Op:      "add step",
			Message: fmt.Sprintf("step name must be a string, got %T", v),
		}
	}
	if name == "" {
		return "", &errors.UsageError{Op: "add step", Message: "step name cannot be empty"}
	}
	return name, nil
}
