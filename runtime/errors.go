// Package runtime wraps a database connection with the query compiler:
// it compiles query specifications, executes them, and keeps the
// transaction bookkeeping.
package runtime

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for runtime operations.
var (
	// ErrCommitFailed is matched by errors returned from a failed commit.
	ErrCommitFailed = errors.New("commit failed")

	// ErrRollbackFailed is matched by errors returned from a failed rollback.
	ErrRollbackFailed = errors.New("rollback failed")

	// ErrNoPrimaryKey is returned when primary key discovery finds no column.
	ErrNoPrimaryKey = errors.New("no primary key")
)

// Operation is a table operation of the wrapper.
type Operation string

const (
	OpSelect Operation = "select"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

func (o Operation) phrase() string {
	switch o {
	case OpSelect:
		return "Selecting from"
	case OpInsert:
		return "Inserting into"
	case OpUpdate:
		return "Updating in"
	case OpDelete:
		return "Deleting from"
	}
	return string(o)
}

// OperationError is returned when a table operation fails to execute.
type OperationError struct {
	Op    Operation
	Table string
	Cause error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	return fmt.Sprintf("Unexpected error %s '%s'\n%v", e.Op.phrase(), e.Table, e.Cause)
}

// Unwrap returns the underlying error.
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// StatementError is returned when the connection fails to prepare or
// execute a statement.
type StatementError struct {
	SQL   string
	Cause error
}

// Error implements the error interface.
func (e *StatementError) Error() string {
	return fmt.Sprintf("Error while executing:\n%s\n%v", e.SQL, e.Cause)
}

// Unwrap returns the underlying error.
func (e *StatementError) Unwrap() error {
	return e.Cause
}

// TransactionError is returned when a commit or rollback fails. It lists
// the changes that were pending at the time.
type TransactionError struct {
	// Rollback is false for a failed commit.
	Rollback bool
	Cause    error
	Pending  []Change
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	op := "Commit"
	if e.Rollback {
		op = "Rollback"
	}
	changes := make([]string, len(e.Pending))
	for i, c := range e.Pending {
		changes[i] = c.String()
	}
	return fmt.Sprintf("%s failed!\n%v\nPending changes:\n%s", op, e.Cause, strings.Join(changes, "\n"))
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *TransactionError) Is(target error) bool {
	if e.Rollback {
		return target == ErrRollbackFailed
	}
	return target == ErrCommitFailed
}
