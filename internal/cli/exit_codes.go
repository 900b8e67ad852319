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
	"fmt"
	"io"

	"github.com/tombee/hero/pkg/errors"
)

// Exit codes returned by the hero binary.
const (
	ExitSuccess        = 0
	ExitRunFailed      = 1
	ExitInvalidInput   = 2
	ExitUnknownFormula = 3
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewRunError creates an error for a formula whose step failed.
func NewRunError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitRunFailed, Message: msg, Cause: cause}
}

// NewInvalidInputError creates an error for bad manifests, flags or arguments.
func NewInvalidInputError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitInvalidInput, Message: msg, Cause: cause}
}

// NewUnknownFormulaError creates an error for a formula missing from the manifest.
func NewUnknownFormulaError(name string) *ExitError {
	return &ExitError{
		Code:    ExitUnknownFormula,
		Message: "unknown formula",
		Cause:   &errors.NotFoundError{Resource: "formula", ID: name},
	}
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	switch errors.TypeOf(err) {
	case "usage", "config":
		return ExitInvalidInput
	case "not_found":
		return ExitUnknownFormula
	}
	return ExitRunFailed
}

// HandleExitError prints err to w, with a suggestion when one is available,
// and returns the exit code.
func HandleExitError(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}

	if msg := err.Error(); msg != "" {
		fmt.Fprintln(w, RenderError(msg))
	}

	var visible errors.UserVisibleError
	if errors.As(err, &visible) && visible.IsUserVisible() {
		if suggestion := visible.Suggestion(); suggestion != "" {
			fmt.Fprintf(w, "\nSuggestion: %s\n", suggestion)
		}
	}

	return ExitCode(err)
}
