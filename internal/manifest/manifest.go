// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// Package manifest loads formula definitions from YAML or TOML and registers
// them.
//
// A manifest lists formulas, each with an ordered list of steps:
//
//	formulas:
//	  - name: checkout
//	    steps:
//	      - name: subtotal
//	        jq: '.subtotal = ([.items[].price] | add)'
//	      - name: validate
//	        assert: 'target.subtotal > 0'
//	      - name: flag
//	        set:
//	          big_order: 'target.subtotal > 100'
//	        when: 'options.dry_run != true'
//
// Each step sets exactly one of jq, set or assert; when is optional. Files
// ending in .toml are decoded as TOML with the same field names.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/tombee/hero/internal/steps"
	"github.com/tombee/hero/pkg/errors"
	"github.com/tombee/hero/pkg/hero"
)

// Manifest is a parsed formulas file.
type Manifest struct {
	Formulas []FormulaDefinition `yaml:"formulas" toml:"formulas"`
}

// FormulaDefinition describes one formula.
type FormulaDefinition struct {
	Name        string           `yaml:"name" toml:"name"`
	Description string           `yaml:"description,omitempty" toml:"description,omitempty"`
	Steps       []StepDefinition `yaml:"steps" toml:"steps"`
}

// StepDefinition describes one step.
type StepDefinition struct {
	Name   string            `yaml:"name" toml:"name"`
	JQ     string            `yaml:"jq,omitempty" toml:"jq,omitempty"`
	Set    map[string]string `yaml:"set,omitempty" toml:"set,omitempty"`
	Assert string            `yaml:"assert,omitempty" toml:"assert,omitempty"`
	When   string            `yaml:"when,omitempty" toml:"when,omitempty"`

	// Timeout bounds a jq step, e.g. "500ms". Empty uses the default.
	Timeout string `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
}

// Kind returns which of jq, set or assert the step uses, or "" if none or
// more than one is set.
func (s StepDefinition) Kind() string {
	kinds := make([]string, 0, 1)
	if s.JQ != "" {
		kinds = append(kinds, "jq")
	}
	if len(s.Set) > 0 {
		kinds = append(kinds, "set")
	}
	if s.Assert != "" {
		kinds = append(kinds, "assert")
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// Load reads and parses the manifest at path, choosing TOML or YAML by
// extension.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.ConfigError{Key: path, Reason: "failed to read manifest", Cause: err}
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}
	return Parse(data)
}

// Parse decodes a manifest and validates it.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &errors.ConfigError{Reason: "invalid YAML", Cause: err}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseTOML decodes a TOML manifest and validates it.
func ParseTOML(data []byte) (*Manifest, error) {
	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, &errors.ConfigError{Reason: "invalid TOML", Cause: err}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks names, step kinds and that every expression compiles.
func (m *Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Formulas))
	for i, f := range m.Formulas {
		key := fmt.Sprintf("formulas[%d]", i)
		if f.Name == "" {
			return &errors.ConfigError{Key: key + ".name", Reason: "formula name is required"}
		}
		if seen[f.Name] {
			return &errors.ConfigError{Key: key + ".name", Reason: fmt.Sprintf("duplicate formula %q", f.Name)}
		}
		seen[f.Name] = true

		for j, s := range f.Steps {
			stepKey := fmt.Sprintf("%s.steps[%d]", key, j)
			if s.Name == "" {
				return &errors.ConfigError{Key: stepKey + ".name", Reason: "step name is required"}
			}
			if _, err := Build(s); err != nil {
				return &errors.ConfigError{Key: stepKey, Reason: "invalid step " + s.Name, Cause: err}
			}
		}
	}
	return nil
}

// Build constructs the step a definition describes.
func Build(def StepDefinition) (hero.Step, error) {
	var (
		step hero.Step
		err  error
	)
	switch def.Kind() {
	case "jq":
		var timeout time.Duration
		if def.Timeout != "" {
			timeout, err = time.ParseDuration(def.Timeout)
			if err != nil {
				return nil, fmt.Errorf("invalid timeout: %w", err)
			}
		}
		step, err = steps.NewJQ(def.JQ, timeout, 0)
	case "set":
		step, err = steps.NewSet(def.Set)
	case "assert":
		step, err = steps.NewAssert(def.Assert)
	default:
		return nil, fmt.Errorf("exactly one of jq, set or assert is required")
	}
	if err != nil {
		return nil, err
	}
	if def.When != "" {
		return steps.NewWhen(def.When, step)
	}
	return step, nil
}

// Apply registers every formula in m with reg, replacing formulas of the
// same name, and adds their steps in order.
func Apply(reg *hero.Registry, m *Manifest) error {
	for _, fd := range m.Formulas {
		f := reg.Register(fd.Name)
		for _, sd := range fd.Steps {
			step, err := Build(sd)
			if err != nil {
				return errors.Wrapf(err, "formula %s step %s", fd.Name, sd.Name)
			}
			if err := f.AddStep(sd.Name, step); err != nil {
				return errors.Wrapf(err, "formula %s", fd.Name)
			}
		}
	}
	return nil
}
