package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Exit codes returned to the shell when resolution or dispatch fails.
// A successful dispatch never returns at all.
const (
	ExitSuccess        = 0
	ExitGeneral        = 1
	ExitUsage          = 2
	ExitNoInterpreter  = 3
	ExitNoVersionMatch = 4
	ExitDispatchFailed = 5
	ExitInterrupted    = 130
)

// ErrNoInterpreter means no Python interpreter exists anywhere on the system
var ErrNoInterpreter = errors.New("no Python interpreter found; install Python or adjust PATH")

// ParseError reports a malformed version request
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid version request %q (expected X, X.Y, X.Y-32 or X.Y-64)", e.Input)
}

// NoVersionMatchError means interpreters exist but none satisfy the constraint
type NoVersionMatchError struct {
	Spec      VersionSpec
	Available []Version
}

func (e *NoVersionMatchError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no interpreter matches %s", e.Spec)
	}

	versions := make([]Version, len(e.Available))
	copy(versions, e.Available)
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Compare(versions[j]) > 0
	})

	seen := make(map[string]bool)
	var available []string
	for _, v := range versions {
		s := v.String()
		if !seen[s] {
			seen[s] = true
			available = append(available, s)
		}
	}

	return fmt.Sprintf("no interpreter matches %s (available: %s)",
		e.Spec, strings.Join(available, ", "))
}

// DispatchError means a selected interpreter could not be executed
type DispatchError struct {
	Path string
	Err  error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("failed to execute %s: %v", e.Path, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// ExitCode maps a resolution or dispatch failure to its process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var parseErr *ParseError
	var matchErr *NoVersionMatchError
	var dispatchErr *DispatchError

	switch {
	case errors.As(err, &parseErr):
		return ExitUsage
	case errors.Is(err, ErrNoInterpreter):
		return ExitNoInterpreter
	case errors.As(err, &matchErr):
		return ExitNoVersionMatch
	case errors.As(err, &dispatchErr):
		return ExitDispatchFailed
	default:
		return ExitGeneral
	}
}
