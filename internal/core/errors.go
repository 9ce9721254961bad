package core

import (
	"errors"
	"fmt"
)

// Error kinds raised by the sizing stages.
var (
	// ErrDomain indicates a numeric input outside a model's validity range.
	ErrDomain = errors.New("uav: value outside model validity range")

	// ErrConfig indicates an invalid layout or an unknown enumerated option.
	ErrConfig = errors.New("uav: invalid configuration")

	// ErrMultipleApex indicates a fuselage layout that widens again after its apex.
	ErrMultipleApex = errors.New("uav: fuselage has more than one apex")

	// ErrNoFeasibleSelection indicates a database filter that left no candidates.
	ErrNoFeasibleSelection = errors.New("uav: no feasible selection")

	// ErrUndersizedBattery indicates a battery below the minimum cell volume.
	ErrUndersizedBattery = fmt.Errorf("%w: battery below minimum volume", ErrDomain)
)

// StageError wraps an error kind with the stage and parameter that raised it.
type StageError struct {
	Stage        string
	Parameter    string
	Value        any
	AllowedRange string
	Message      string
	Err          error
}

func (e *StageError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Err.Error()
	}
	if e.Parameter == "" {
		return fmt.Sprintf("%s: %s", e.Stage, msg)
	}
	if e.AllowedRange == "" {
		return fmt.Sprintf("%s: %s (%s=%v)", e.Stage, msg, e.Parameter, e.Value)
	}
	return fmt.Sprintf("%s: %s (%s=%v, allowed %s)", e.Stage, msg, e.Parameter, e.Value, e.AllowedRange)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// DomainError builds a StageError of kind ErrDomain.
func DomainError(stage, param string, value any, allowed string) error {
	return &StageError{Stage: stage, Parameter: param, Value: value, AllowedRange: allowed, Err: ErrDomain}
}

// ConfigError builds a StageError of kind ErrConfig.
func ConfigError(stage, message string) error {
	return &StageError{Stage: stage, Message: message, Err: ErrConfig}
}

// OptionError reports an unknown enumerated option.
func OptionError(stage, param string, value any, allowed string) error {
	return &StageError{
		Stage:        stage,
		Parameter:    param,
		Value:        value,
		AllowedRange: allowed,
		Message:      "unknown option",
		Err:          ErrConfig,
	}
}
