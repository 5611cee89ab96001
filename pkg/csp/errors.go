package csp

import (
	"errors"
	"fmt"
)

// ErrBuild is the sentinel wrapped by every construction-time error:
// an unknown variable in a constraint scope, an empty domain universe,
// or a duplicate variable index. Build errors never occur during
// search.
var ErrBuild = errors.New("csp: build error")

func buildErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBuild, fmt.Sprintf(format, args...))
}

// invariantViolation is raised only for states that a correct
// implementation can never reach: a pruning-log depth mismatch (a
// removal or rollback with no frame pushed, or frames left on the
// stack after a solve). It is deliberately a
// panic, not a returned error — per the design, any such inconsistency
// means later solutions would be unsound, so the solve must crash
// rather than silently continue.
type invariantViolation struct {
	msg string
}

func (e invariantViolation) Error() string { return "csp: internal invariant violation: " + e.msg }

func panicInvariant(format string, args ...any) {
	panic(invariantViolation{msg: fmt.Sprintf(format, args...)})
}
