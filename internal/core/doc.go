// Package core holds the types shared by every sizing stage.
//
// The package defines:
//
//   - the error kinds raised by sizing stages ([ErrDomain], [ErrConfig],
//     [ErrMultipleApex], [ErrNoFeasibleSelection], [ErrUndersizedBattery])
//     and the [StageError] wrapper carrying stage/parameter context
//   - [Warning] and [Warnings], the per-run list of non-fatal findings
//   - physical and statistical constants used across stages
//
// # Error handling
//
// Stages never recover from errors locally. Callers match kinds with
// errors.Is and read context with errors.As:
//
//	_, err := weight.MTOWFromPayload(-1)
//	var se *core.StageError
//	if errors.As(err, &se) && errors.Is(err, core.ErrDomain) {
//	    fmt.Println(se.Parameter, se.AllowedRange)
//	}
package core
