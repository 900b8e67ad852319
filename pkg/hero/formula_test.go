package hero

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormula_RunPassesTargetAndOptions(t *testing.T) {
	for _, name := range []string{"run", "notify"} {
		t.Run(name, func(t *testing.T) {
			f := NewRegistry().Get("test_formula")
			target := &struct{ ID int }{ID: 7}
			stepRan := false
			require.NoError(t, f.AddStepFunc(func(_ context.Context, got any, opts Options) error {
				assert.Same(t, target, got)
				assert.Equal(t, "bar", opts["foo"])
				stepRan = true
				return nil
			}, "one"))

			var err error
			if name == "run" {
				err = f.Run(context.Background(), target, Options{"foo": "bar"})
			} else {
				err = f.Notify(context.Background(), target, Options{"foo": "bar"})
			}
			require.NoError(t, err)
			assert.True(t, stepRan)
		})
	}
}

func TestFormula_RunStepDefinedAsType(t *testing.T) {
	f := NewRegistry().Get("test_formula")
	require.NoError(t, f.AddStep("one", ValueStep{}))

	opts := Options{}
	require.NoError(t, f.Run(context.Background(), "foo", opts))
	assert.Equal(t, "foo", opts["context"])
}

func TestFormula_RunMultipleSteps(t *testing.T) {
	f := NewRegistry().Get("test_formula")
	require.NoError(t, f.AddStepFunc(func(_ context.Context, _ any, opts Options) error {
		opts["one"] = true
		return nil
	}, "one"))
	require.NoError(t, f.AddStepFunc(func(_ context.Context, _ any, opts Options) error {
		opts["two"] = true
		return nil
	}, "two"))

	log := Options{}
	require.NoError(t, f.Run(context.Background(), nil, log))
	assert.Equal(t, true, log["one"])
	assert.Equal(t, true, log["two"])
}

func TestFormula_RunWithNilOptions(t *testing.T) {
	f := NewRegistry().Get("test_formula")
	var got Options
	require.NoError(t, f.AddStepFunc(func(_ context.Context, _ any, opts Options) error {
		got = opts
		opts["set"] = 1
		return nil
	}, "one"))

	require.NoError(t, f.Run(context.Background(), nil, nil))
	assert.Equal(t, Options{"set": 1}, got)
}

func TestFormula_Report(t *testing.T) {
	f := NewRegistry().Get("test_formula")
	for _, name := range []string{"one", "two", "three", "four"} {
		require.NoError(t, f.AddStepFunc(noop, name))
	}

	want := "test_formula\n  1. one\n  2. two\n  3. three\n  4. four"
	assert.Equal(t, want, f.Report())
	assert.Equal(t, want, f.String())
}

func TestFormula_ReportWithoutSteps(t *testing.T) {
	assert.Equal(t, "empty", NewRegistry().Get("empty").Report())
}

func TestFormula_TypeName(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, "HeroFormulaMyFormula", reg.Get("my_formula").TypeName())
	assert.Equal(t, "HeroFormulaALongAndCrzyFrmulName", reg.Get("A long and cr@zy f0rmul@ name ~12$%").TypeName())
}

func TestFormula_StepsDelegatesToStepList(t *testing.T) {
	f := NewRegistry().Get("test_formula")
	step := &MyStep{}
	require.NoError(t, f.AddStep(step))

	steps := f.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, "MyStep", steps[0].Name)
	assert.Same(t, step, steps[0].Step)
	assert.Equal(t, "test_formula", f.StepList().Formula())
}
