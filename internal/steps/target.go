package steps

import (
	"encoding/json"
	"fmt"

	"github.com/tombee/hero/pkg/hero"
)

// targetMap returns the map a step should read and mutate.
func targetMap(target any) (map[string]any, error) {
	switch t := target.(type) {
	case map[string]any:
		if t == nil {
			return nil, fmt.Errorf("target map is nil")
		}
		return t, nil
	case *map[string]any:
		if t == nil {
			return nil, fmt.Errorf("target map pointer is nil")
		}
		if *t == nil {
			*t = make(map[string]any)
		}
		return *t, nil
	case hero.Options:
		return t, nil
	}
	return nil, fmt.Errorf("target must be a map[string]any, got %T", target)
}

// env builds the variables visible to expressions.
func env(target any, opts hero.Options) map[string]any {
	if m, err := targetMap(target); err == nil {
		target = m
	}
	return map[string]any{
		"target":  target,
		"options": map[string]any(opts),
	}
}

// normalize converts v into plain JSON values (maps, slices, float64,
// strings, bools) so jq can operate on it. It returns the encoded size too.
func normalize(v any) (any, int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal data: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return out, len(data), nil
}
