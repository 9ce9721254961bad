package core

import (
	"fmt"
	"strings"
)

type WarningKind string

const (
	// UnstableDesign is raised when the scissor analysis falls back to the
	// analytic tail ratio or the final CG leaves the stable interval.
	UnstableDesign WarningKind = "unstable_design"

	// ValidationReset is raised when a user value was replaced by its default.
	ValidationReset WarningKind = "validation_reset"

	// MassMismatch is raised when the summed component masses stray from
	// the Class-I take-off mass the aircraft was sized for.
	MassMismatch WarningKind = "mass_mismatch"
)

type Warning struct {
	Kind    WarningKind `json:"kind" msgpack:"kind"`
	Stage   string      `json:"stage" msgpack:"stage"`
	Message string      `json:"message" msgpack:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s: %s", w.Kind, w.Stage, w.Message)
}

// Warnings is a per-run list of non-fatal findings, in stage order.
type Warnings []Warning

func (ws *Warnings) Add(kind WarningKind, stage, format string, args ...any) {
	*ws = append(*ws, Warning{Kind: kind, Stage: stage, Message: fmt.Sprintf(format, args...)})
}

func (ws Warnings) Has(kind WarningKind) bool {
	for _, w := range ws {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

func (ws Warnings) String() string {
	lines := make([]string, len(ws))
	for i, w := range ws {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
