// Package wcerr defines the typed error kinds from the error-handling
// design: Configuration, HostFailure and PolicyIO are fatal; EmptySeries is
// a warning; PolicyMiss is recovered locally by its caller and never
// escapes as a wcerr.Error.
package wcerr

import "fmt"

// Kind classifies an error for the CLI's exit-code mapping.
type Kind int

const (
	// Configuration covers missing required options or invalid ranges,
	// fatal at startup.
	Configuration Kind = iota
	// HostFailure covers the symbolic-execution backend reporting an
	// internal error; the current phase aborts.
	HostFailure
	// PolicyIO covers a serialized trie that cannot be written or read.
	PolicyIO
	// PolicyMiss covers choicesForLongestSuffix returning empty at a
	// branch. Local and non-fatal — HeuristicSearch recovers by falling
	// back to its configured default and never lets this kind surface to
	// the Driver.
	PolicyMiss
	// EmptySeries covers phase 2 completing with zero points. A warning,
	// not fatal: fitting is skipped but the pipeline still renders budget
	// annotations.
	EmptySeries
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "configuration"
	case HostFailure:
		return "host-failure"
	case PolicyIO:
		return "policy-io"
	case PolicyMiss:
		return "policy-miss"
	case EmptySeries:
		return "empty-series"
	default:
		return "unknown"
	}
}

// Error is a wcerr-classified error, carrying which phase it happened in
// for the single diagnostic line the CLI prints on a fatal error.
type Error struct {
	Kind  Kind
	Phase string
	Err   error
}

func New(kind Kind, phase string, err error) *Error {
	return &Error{Kind: kind, Phase: phase, Err: err}
}

func (e *Error) Error() string {
	if e.Phase == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Kind, e.Phase, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode maps a Kind to the CLI exit code prescribed for it. EmptySeries
// and PolicyMiss never reach the CLI as a fatal exit — PolicyMiss is always
// recovered, EmptySeries is a warning that still exits 0 — but both are
// given codes here for completeness and for any future caller that reports
// them as fatal in a stricter mode.
func ExitCode(kind Kind) int {
	switch kind {
	case Configuration:
		return 1
	case HostFailure:
		return 2
	case PolicyIO:
		return 3
	default:
		return 0
	}
}
