// Package steps provides the built-in step kinds used by formula manifests.
//
// Every kind works on a map target (map[string]any or *map[string]any):
//
//   - JQ runs a jq program over the target and replaces its contents with
//     the resulting object. The run's options are bound to $options.
//   - Set evaluates expr-lang expressions and stores each result in the
//     run's options under its key.
//   - Assert fails the run when an expr-lang condition is false.
//   - When wraps another step and skips it when its condition is false.
//
// Expressions see two variables, target and options.
package steps
