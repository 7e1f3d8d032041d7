package resolver

import (
	"bytes"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// traceError is implemented by every error in this taxonomy; traceString()
// renders the failure with more structure than the one-line Error(). The
// Tracer does not log errors and does not call it.
type traceError interface {
	traceString() string
}

// ContractViolationError reports that the Cache returned data inconsistent
// with its documented contract (see cache.go): a satisfier absent from its
// own package's version list, an unparseable relation expression handed
// back as a clause, and so on. This is always a defect in the Cache
// implementation, never a property of the package universe being resolved.
type ContractViolationError struct {
	Detail string
	Cause  error
}

func (e *ContractViolationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache contract violation: %s: %s", e.Detail, e.Cause)
	}
	return fmt.Sprintf("cache contract violation: %s", e.Detail)
}

func (e *ContractViolationError) traceString() string {
	return "contract violation: " + e.Detail
}

func (e *ContractViolationError) Unwrap() error { return e.Cause }

// wrapContractViolation builds a ContractViolationError, attaching a stack
// trace to cause via github.com/pkg/errors so the original failure site
// survives being carried up through the search engine.
func wrapContractViolation(detail string, cause error) error {
	if cause != nil {
		cause = pkgerrors.WithStack(cause)
	}
	return &ContractViolationError{Detail: detail, Cause: cause}
}

// NoSolutionError reports that the search frontier was exhausted without
// ever producing a Finished solution: the requested changes, together with
// whatever else is already installed, are unsatisfiable against the
// current package universe.
type NoSolutionError struct {
	// Explanation is the best single failure chain the Decision Fail Tree
	// could extract across every abandoned branch.
	Explanation string
}

func (e *NoSolutionError) Error() string {
	if e.Explanation == "" {
		return "no solution found"
	}
	return "no solution found: " + e.Explanation
}

func (e *NoSolutionError) traceString() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "no solution found")
	if e.Explanation != "" {
		fmt.Fprintf(&buf, ":\n  %s", e.Explanation)
	}
	return buf.String()
}

// CancelledError reports that the resolve stopped before converging,
// because the caller's context was cancelled or a configured resource
// budget (iteration count, wall-clock time) was exceeded.
type CancelledError struct {
	Reason string
}

func (e *CancelledError) Error() string {
	return "resolve cancelled: " + e.Reason
}

func (e *CancelledError) traceString() string {
	return "cancelled: " + e.Reason
}

// DeclinedError reports that the caller's callback abandoned the search
// without accepting any of the Attempts solutions offered to it. Declining
// every solution until the frontier is exhausted yields a NoSolutionError
// instead.
type DeclinedError struct {
	Attempts int
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("caller declined all %d offered solution(s)", e.Attempts)
}

func (e *DeclinedError) traceString() string {
	return e.Error()
}

// InvalidRequestError reports a malformed call against the public
// interface: an empty relation expression, a package name the Cache has
// never heard of, and so on.
type InvalidRequestError struct {
	Detail string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Detail
}

func (e *InvalidRequestError) traceString() string {
	return e.Error()
}
