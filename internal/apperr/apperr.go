package apperr

import (
	"fmt"
)

// PayloadError is a request the client has to fix: bad JSON, a missing
// required field, a payload of the wrong shape.
type PayloadError struct {
	Message string
	Detail  string
}

func (e *PayloadError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func Payload(msg string) *PayloadError {
	return &PayloadError{Message: msg}
}

func Payloadf(format string, args ...any) *PayloadError {
	return &PayloadError{Message: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	What string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.What, e.ID)
}

// OutOfStockError is returned when a card has no stock or less than requested.
type OutOfStockError struct {
	ID    string
	Stock int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out of stock: id=%s stock=%d", e.ID, e.Stock)
}

// PersistenceError wraps a storage failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
