package steps

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/itchyny/gojq"

	"github.com/tombee/hero/pkg/hero"
)

const (
	// DefaultJQTimeout bounds a single jq program run.
	DefaultJQTimeout = 1 * time.Second

	// DefaultMaxInputSize is the largest target, JSON encoded, a jq step accepts (10MB).
	DefaultMaxInputSize = 10 * 1024 * 1024
)

// JQ replaces the target's contents with the object produced by a jq program.
type JQ struct {
	expression   string
	code         *gojq.Code
	timeout      time.Duration
	maxInputSize int
}

// NewJQ compiles expression. A zero timeout or size limit takes the default.
func NewJQ(expression string, timeout time.Duration, maxInputSize int) (*JQ, error) {
	if expression == "" {
		return nil, fmt.Errorf("jq expression is empty")
	}
	if timeout == 0 {
		timeout = DefaultJQTimeout
	}
	if maxInputSize == 0 {
		maxInputSize = DefaultMaxInputSize
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query, gojq.WithVariables([]string{"$options"}))
	if err != nil {
		return nil, fmt.Errorf("jq compilation failed: %w", err)
	}

	return &JQ{
		expression:   expression,
		code:         code,
		timeout:      timeout,
		maxInputSize: maxInputSize,
	}, nil
}

// Expression returns the jq source.
func (s *JQ) Expression() string {
	return s.expression
}

// Call implements hero.Step.
func (s *JQ) Call(ctx context.Context, target any, opts hero.Options) error {
	m, err := targetMap(target)
	if err != nil {
		return err
	}

	input, size, err := normalize(m)
	if err != nil {
		return err
	}
	if size > s.maxInputSize {
		return fmt.Errorf("data size (%d bytes) exceeds maximum (%d bytes)", size, s.maxInputSize)
	}
	options, _, err := normalize(map[string]any(opts))
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	iter := s.code.RunWithContext(runCtx, input, options)
	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			if runCtx.Err() != nil {
				return fmt.Errorf("jq execution timeout after %v", s.timeout)
			}
			return fmt.Errorf("jq: %w", err)
		}
		results = append(results, v)
	}

	if len(results) != 1 {
		return fmt.Errorf("jq expression must produce exactly one result, got %d", len(results))
	}
	obj, ok := results[0].(map[string]any)
	if !ok {
		return fmt.Errorf("jq result must be an object, got %T", results[0])
	}

	clear(m)
	maps.Copy(m, obj)
	return nil
}
