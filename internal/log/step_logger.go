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
package log

import (
	"context"
	"log/slog"

	"github.com/tombee/hero/pkg/hero"
)

// StepLogger writes hero step lines to a slog.Logger. Before and after lines
// go out at info level, failures at error level.
type StepLogger struct {
	logger *slog.Logger
}

var _ hero.Logger = (*StepLogger)(nil)

// NewStepLogger wraps logger. A nil logger uses slog.Default().
func NewStepLogger(logger *slog.Logger) *StepLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &StepLogger{logger: logger}
}

// Info implements hero.Logger.
func (s *StepLogger) Info(msg string) {
	s.logger.LogAttrs(context.Background(), slog.LevelInfo, msg)
}

// Error implements hero.Logger.
func (s *StepLogger) Error(msg string) {
	s.logger.LogAttrs(context.Background(), slog.LevelError, msg)
}

// Install sets a StepLogger over logger as the process-wide hero logger and
// returns a function that restores the previous one.
func Install(logger *slog.Logger) (restore func()) {
	previous := hero.CurrentLogger()
	hero.SetLogger(NewStepLogger(logger))
	return func() { hero.SetLogger(previous) }
}
