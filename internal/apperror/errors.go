package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Base error values for errors.Is checks.
var (
	ErrMissingField = errors.New("missing field")
	ErrNotFound     = errors.New("not found")
	ErrBusinessRule = errors.New("business rule violation")
	ErrValidation   = errors.New("validation failed")
	ErrPersistence  = errors.New("persistence failure")
	ErrUnauthorized = errors.New("unauthorized")
)

// Kind is the category of an application error.
type Kind string

const (
	KindMissingField Kind = "missing_field"
	KindNotFound     Kind = "not_found"
	KindBusinessRule Kind = "business_rule"
	KindValidation   Kind = "validation"
	KindPersistence  Kind = "persistence"
	KindUnauthorized Kind = "unauthorized"
	KindUnknown      Kind = "unknown"
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the structured error returned by services.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "checkin.create"
	Rule    string // rule name for KindBusinessRule
	Message string // caller-visible message
	Fields  []FieldError
	Err     error // underlying cause, never shown to callers for KindPersistence
}

func (e *Error) Error() string {
	if e.Kind == KindPersistence {
		return e.Message
	}
	if e.Rule != "" {
		return fmt.Sprintf("%s: %s", e.Rule, e.Message)
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is against the base error values.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMissingField:
		return e.Kind == KindMissingField
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrBusinessRule:
		return e.Kind == KindBusinessRule
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrPersistence:
		return e.Kind == KindPersistence
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	}
	return false
}

func MissingField(op, field string) *Error {
	return &Error{Kind: KindMissingField, Op: op, Message: fmt.Sprintf("field %s is required", field),
		Fields: []FieldError{{Field: field, Message: "required"}}}
}

func NotFound(op, what string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: what + " not found"}
}

func BusinessRule(op, rule, message string) *Error {
	return &Error{Kind: KindBusinessRule, Op: op, Rule: rule, Message: message}
}

func Validation(op string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: "validation failed", Fields: fields}
}

// Persistence wraps a storage fault behind a generic message.
func Persistence(op, message string, err error) *Error {
	return &Error{Kind: KindPersistence, Op: op, Message: message, Err: err}
}

func Unauthorized(op, message string) *Error {
	return &Error{Kind: KindUnauthorized, Op: op, Message: message}
}

// KindOf returns the Kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// RuleOf returns the business rule name carried by err, if any.
func RuleOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Rule
	}
	return ""
}
