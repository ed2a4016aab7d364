package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the authorization engine. Route handlers translate
// these to the platform's standard error responses; Unauthorized is always
// surfaced with a generic message so the API never becomes an
// organization-enumeration oracle.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrInvalidHierarchy      = errors.New("invalid organization hierarchy")
	ErrParentNotHeadquarters = fmt.Errorf("%w: parent must be a headquarters organization", ErrInvalidHierarchy)
	ErrParentAlreadyLinked   = fmt.Errorf("%w: parent organization is itself linked to a headquarters", ErrInvalidHierarchy)
	ErrSelfLink              = fmt.Errorf("%w: an organization cannot be its own parent", ErrInvalidHierarchy)
	ErrHeadquartersChild     = fmt.Errorf("%w: a headquarters organization cannot have a parent", ErrInvalidHierarchy)
)

// Validation codes surfaced in the error response
const (
	CodeMissingOrganization = "MISSING_ORGANIZATION"
	CodeMissingDepartment   = "MISSING_DEPARTMENT"
	CodeDuplicateEmail      = "DUPLICATE_EMAIL"
	CodeWeakPassword        = "WEAK_PASSWORD"
	CodeInvalidEmail        = "INVALID_EMAIL"
)

// ValidationError reports malformed or policy-violating input. The caller
// corrects and resubmits; nothing in this subsystem retries.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}
