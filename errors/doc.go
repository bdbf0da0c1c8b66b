// Package errors provides structured error types for the byvalue library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: slot path, Go/WIT type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLayout, errors.KindLayoutMismatch).
//		Path("first-struct", "b").
//		GoType("float32").
//		WitType("f64").
//		Detail("size 4, contract size 8").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.LayoutMismatch([]string{"abcd"}, "offset 4, contract offset 0")
//	err := errors.OutOfBounds(errors.PhaseDecode, path, 40, 16)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
