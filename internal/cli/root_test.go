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
package cli

import (
	"testing"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "hero" {
		t.Errorf("expected use 'hero', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected short description to be set")
	}

	for _, name := range []string{"run", "list", "report", "validate", "version"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("expected %s subcommand to be registered", name)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"file", "verbose", "json"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("%s flag not registered", name)
		}
	}
}

func TestFileFlagDefaultsFromEnv(t *testing.T) {
	t.Setenv("HERO_FILE", "formulas.yaml")

	cmd := NewRootCommand()
	if got := cmd.PersistentFlags().Lookup("file").DefValue; got != "formulas.yaml" {
		t.Errorf("expected default from HERO_FILE, got %q", got)
	}
}

func TestSetVersion(t *testing.T) {
	v0, c0, b0 := GetVersion()
	t.Cleanup(func() { SetVersion(v0, c0, b0) })

	SetVersion("1.2.3", "abc123", "2026-01-02")

	v, c, b := GetVersion()
	if v != "1.2.3" {
		t.Errorf("expected version '1.2.3', got %q", v)
	}
	if c != "abc123" {
		t.Errorf("expected commit 'abc123', got %q", c)
	}
	if b != "2026-01-02" {
		t.Errorf("expected build date '2026-01-02', got %q", b)
	}
}
