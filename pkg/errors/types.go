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
package errors

import (
	"fmt"
)

// UsageError reports a caller misusing a registration API, such as adding an
// anonymous step or passing too many arguments. It is always raised
// synchronously at registration time, never while a formula runs.
type UsageError struct {
	// Op is the operation that was misused (e.g., "add step")
	Op string

	// Message is the human-readable error description
	Message string

	// Hint provides actionable guidance for fixing the call
	Hint string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// IsUserVisible implements UserVisibleError.
func (e *UsageError) IsUserVisible() bool { return true }

// UserMessage implements UserVisibleError.
func (e *UsageError) UserMessage() string { return e.Message }

// Suggestion implements UserVisibleError.
func (e *UsageError) Suggestion() string { return e.Hint }

// ErrorType implements ErrorClassifier.
func (e *UsageError) ErrorType() string { return "usage" }

// IsRetryable implements ErrorClassifier. Usage errors never succeed on retry.
func (e *UsageError) IsRetryable() bool { return false }

// NotFoundError represents a resource not found error.
// Use this when a requested formula or step kind does not exist.
type NotFoundError struct {
	// Resource is the type of resource (e.g., "formula", "step kind")
	Resource string

	// ID is the identifier that was not found
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrorType implements ErrorClassifier.
func (e *NotFoundError) ErrorType() string { return "not_found" }

// IsRetryable implements ErrorClassifier.
func (e *NotFoundError) IsRetryable() bool { return false }

// ConfigError represents configuration problems.
// Use this for manifest files that fail to parse or validate.
type ConfigError struct {
	// Key is the configuration key that has the problem (e.g., "formulas[0].steps[2].jq")
	Key string

	// Reason explains what's wrong with the configuration
	Reason string

	// Cause is the underlying error (e.g., file read error, parse error)
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config error: %s", e.Reason)
	if e.Key != "" {
		msg = fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ErrorType implements ErrorClassifier.
func (e *ConfigError) ErrorType() string { return "config" }

// IsRetryable implements ErrorClassifier.
func (e *ConfigError) IsRetryable() bool { return false }
