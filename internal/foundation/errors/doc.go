// Package errors provides the classified error type used across docsite.
//
// Every error that reaches the CLI carries a category (config, validation,
// content, render, ...), a severity and a retry strategy, plus structured
// context. The CLI adapter maps categories to exit codes.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryConfig, "failed to read config").
//		WithContext("path", path).
//		Build()
package errors
