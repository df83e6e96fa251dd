// Package services holds the credential store, session issuer, content store and
// message inbox that the HTTP layer drives.
package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrDuplicateEmail              = errors.New("email is already in use")
	ErrInvalidCredentials          = errors.New("invalid credentials")
	ErrMissingBootstrapCredentials = errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	ErrNotFound                    = errors.New("not found")

	ErrTokenMissing = errors.New("missing token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// ValidationError reports malformed or missing input. It is always returned
// before any write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError names the missing entity while still matching ErrNotFound.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(entity string) error { return &NotFoundError{Entity: entity} }

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func requireField(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "is required")
	}
	return nil
}
