package domain

import "fmt"

// The error types below form the contract between services and the HTTP
// layer: each one maps to a fixed status code when rendered.

type ValidationError struct {
	Msg     string
	Details []string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func NewValidationDetails(msg string, details ...string) *ValidationError {
	return &ValidationError{Msg: msg, Details: details}
}

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NewNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func NewConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }

func NewForbidden(format string, args ...interface{}) *ForbiddenError {
	return &ForbiddenError{Msg: fmt.Sprintf(format, args...)}
}

type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string { return e.Msg }

func NewUnauthorized(format string, args ...interface{}) *UnauthorizedError {
	return &UnauthorizedError{Msg: fmt.Sprintf(format, args...)}
}
