package hero

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/hero/pkg/errors"
)

// MyStep implements Step on its pointer.
type MyStep struct {
	calls int
}

func (s *MyStep) Call(_ context.Context, _ any, _ Options) error {
	s.calls++
	return nil
}

// ValueStep implements Step on its value.
type ValueStep struct{}

func (ValueStep) Call(_ context.Context, target any, opts Options) error {
	opts["context"] = target
	return nil
}

type notAStep struct{}

// ChargeCard is a named func type that is a step in its own right.
type ChargeCard func(target any) error

func (c ChargeCard) Call(_ context.Context, target any, _ Options) error {
	return c(target)
}

func TestInferName(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"instance pointer", &MyStep{}, "MyStep"},
		{"instance value", ValueStep{}, "ValueStep"},
		{"type reference", reflect.TypeFor[MyStep](), "MyStep"},
		{"pointer type reference", reflect.TypeFor[*MyStep](), "MyStep"},
		{"plain func", func(any, Options) error { return nil }, ""},
		{"step func", StepFunc(func(context.Context, any, Options) error { return nil }), ""},
		{"named func step", ChargeCard(func(any) error { return nil }), "ChargeCard"},
		{"named func type reference", reflect.TypeFor[ChargeCard](), "ChargeCard"},
		{"anonymous struct", struct{}{}, ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferName(tt.in))
		})
	}
}

func TestAsStep(t *testing.T) {
	t.Run("step value is used as-is", func(t *testing.T) {
		s := &MyStep{}
		got, err := AsStep(s)
		require.NoError(t, err)
		assert.Same(t, s, got)
	})

	t.Run("type reference with pointer receiver", func(t *testing.T) {
		got, err := AsStep(reflect.TypeFor[MyStep]())
		require.NoError(t, err)
		assert.IsType(t, &MyStep{}, got)
	})

	t.Run("type reference with value receiver", func(t *testing.T) {
		got, err := AsStep(reflect.TypeFor[ValueStep]())
		require.NoError(t, err)
		opts := Options{}
		require.NoError(t, got.Call(context.Background(), "x", opts))
		assert.Equal(t, "x", opts["context"])
	})

	t.Run("function forms", func(t *testing.T) {
		ran := 0
		forms := []any{
			func(context.Context, any, Options) error { ran++; return nil },
			func(any, Options) error { ran++; return nil },
			func(any, Options) { ran++ },
		}
		for _, form := range forms {
			step, err := AsStep(form)
			require.NoError(t, err)
			require.NoError(t, step.Call(context.Background(), nil, Options{}))
		}
		assert.Equal(t, 3, ran)
	})

	t.Run("rejects non callables", func(t *testing.T) {
		for _, v := range []any{nil, 42, "step", notAStep{}, reflect.TypeFor[notAStep]()} {
			_, err := AsStep(v)
			var usageErr *errors.UsageError
			assert.ErrorAs(t, err, &usageErr, "value %#v", v)
		}
	})
}
