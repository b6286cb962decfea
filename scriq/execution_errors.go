package scriq

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies runtime faults. Every fault aborts the evaluation.
type ErrorKind string

const (
	FaultUndefinedVariable    ErrorKind = "UndefinedVariable"
	FaultTypeMismatch         ErrorKind = "TypeMismatch"
	FaultUnsupportedOperator  ErrorKind = "UnsupportedOperator"
	FaultShapeMismatch        ErrorKind = "ShapeMismatch"
	FaultUnsupportedRank      ErrorKind = "UnsupportedRank"
	FaultUndefinedProcedure   ErrorKind = "UndefinedProcedure"
	FaultInvalidHostReturn    ErrorKind = "InvalidHostReturn"
	FaultHostProcedureFailure ErrorKind = "HostProcedureFailure"
	FaultConstructionFault    ErrorKind = "ConstructionFault"
	FaultIndexOutOfRange      ErrorKind = "IndexOutOfRange"
	FaultAsyncFailure         ErrorKind = "AsyncFailure"
	FaultQuotaExceeded        ErrorKind = "QuotaExceeded"
)

// Sentinels for errors.Is. A *RuntimeError matches the sentinel of its kind.
var (
	ErrUndefinedVariable    = &kindError{kind: FaultUndefinedVariable}
	ErrTypeMismatch         = &kindError{kind: FaultTypeMismatch}
	ErrUnsupportedOperator  = &kindError{kind: FaultUnsupportedOperator}
	ErrShapeMismatch        = &kindError{kind: FaultShapeMismatch}
	ErrUnsupportedRank      = &kindError{kind: FaultUnsupportedRank}
	ErrUndefinedProcedure   = &kindError{kind: FaultUndefinedProcedure}
	ErrInvalidHostReturn    = &kindError{kind: FaultInvalidHostReturn}
	ErrHostProcedureFailure = &kindError{kind: FaultHostProcedureFailure}
	ErrConstructionFault    = &kindError{kind: FaultConstructionFault}
	ErrIndexOutOfRange      = &kindError{kind: FaultIndexOutOfRange}
	ErrAsyncFailure         = &kindError{kind: FaultAsyncFailure}
	ErrQuotaExceeded        = &kindError{kind: FaultQuotaExceeded}
)

var (
	errStepQuotaExceeded   = fmt.Errorf("step quota exceeded: %w", ErrQuotaExceeded)
	errMemoryQuotaExceeded = fmt.Errorf("memory quota exceeded: %w", ErrQuotaExceeded)
)

type kindError struct {
	kind ErrorKind
}

func (e *kindError) Error() string { return string(e.kind) }

// RuntimeError is the fault surfaced to the host.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	Pos     Position
	Err     error
}

func (re *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(string(re.Kind))
	b.WriteString(": ")
	b.WriteString(re.Message)
	if re.Pos.Line > 0 && re.Pos.Column > 0 {
		fmt.Fprintf(&b, "\n  at %d:%d", re.Pos.Line, re.Pos.Column)
	} else if re.Pos.Line > 0 {
		fmt.Fprintf(&b, "\n  at line %d", re.Pos.Line)
	}
	return b.String()
}

func (re *RuntimeError) Is(target error) bool {
	ke, ok := target.(*kindError)
	return ok && ke.kind == re.Kind
}

// Unwrap exposes the host or async cause, if any.
func (re *RuntimeError) Unwrap() error {
	return re.Err
}

func newError(kind ErrorKind, format string, args ...any) error {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapKind(kind ErrorKind, cause error, format string, args ...any) error {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// ErrorKindOf reports the kind of a fault, or "" for non-runtime errors.
func ErrorKindOf(err error) ErrorKind {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

func (exec *Execution) errorAt(pos Position, kind ErrorKind, format string, args ...any) error {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// wrapError attaches a source position to errors raised below the evaluator.
func (exec *Execution) wrapError(err error, pos Position) error {
	if err == nil {
		return nil
	}
	if isHostControlSignal(err) {
		return err
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		if re.Pos.Line == 0 && re.Pos.Column == 0 {
			clone := *re
			clone.Pos = pos
			return &clone
		}
		return err
	}
	return &RuntimeError{Kind: FaultTypeMismatch, Message: err.Error(), Pos: pos, Err: err}
}

func isHostControlSignal(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, errStepQuotaExceeded) ||
		errors.Is(err, errMemoryQuotaExceeded)
}
