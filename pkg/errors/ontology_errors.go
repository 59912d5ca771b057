package errors

import (
	"fmt"
	"net/http"
)

// Ontology-domain error types, alongside the generic ones in errors.go.
const (
	ErrorTypeDanglingReference  ErrorType = "DANGLING_REFERENCE"
	ErrorTypeVersionConflict    ErrorType = "VERSION_CONFLICT"
	ErrorTypeAlreadyExists      ErrorType = "ALREADY_EXISTS"
	ErrorTypeFilterCompilation  ErrorType = "FILTER_COMPILATION"
	ErrorTypeTemporalAxisMisuse ErrorType = "TEMPORAL_AXIS_MISUSE"
)

// NewDanglingReferenceError creates the error returned when a reference
// kind's target VersionedURL does not resolve to any existing ontology id.
// A create or update transaction that produces this error must not commit
// any of its reference rows.
func NewDanglingReferenceError(kind string, target string) *AppError {
	return &AppError{
		Type:       ErrorTypeDanglingReference,
		Message:    fmt.Sprintf("%s reference target %s does not exist", kind, target),
		HTTPStatus: http.StatusUnprocessableEntity,
		StackTrace: captureStackTrace(),
	}
}

// NewVersionConflictError creates the error returned when an update targets
// a base url whose latest version has moved since the caller read it.
func NewVersionConflictError(baseURL string, expected, actual uint32) *AppError {
	return &AppError{
		Type:       ErrorTypeVersionConflict,
		Message:    fmt.Sprintf("%s: expected latest version %d, found %d", baseURL, expected, actual),
		HTTPStatus: http.StatusConflict,
		StackTrace: captureStackTrace(),
	}
}

// NewAlreadyExistsError creates the error returned when a create call with
// ConflictBehavior Fail targets a base url that already has a version.
func NewAlreadyExistsError(baseURL string) *AppError {
	return &AppError{
		Type:       ErrorTypeAlreadyExists,
		Message:    fmt.Sprintf("%s already exists", baseURL),
		HTTPStatus: http.StatusConflict,
		StackTrace: captureStackTrace(),
	}
}

// NewFilterCompilationError creates the error returned when a structural
// query's filter expression cannot be compiled against the store's schema.
func NewFilterCompilationError(reason string) *AppError {
	return &AppError{
		Type:       ErrorTypeFilterCompilation,
		Message:    fmt.Sprintf("filter compilation failed: %s", reason),
		HTTPStatus: http.StatusBadRequest,
		StackTrace: captureStackTrace(),
	}
}

// NewTemporalAxisMisuseError creates the error returned when a query mixes
// decision-time and transaction-time semantics in a way the store cannot
// honor, such as requesting an interval on the axis it is not scoped to.
func NewTemporalAxisMisuseError(reason string) *AppError {
	return &AppError{
		Type:       ErrorTypeTemporalAxisMisuse,
		Message:    fmt.Sprintf("temporal axis misuse: %s", reason),
		HTTPStatus: http.StatusBadRequest,
		StackTrace: captureStackTrace(),
	}
}

// IsDanglingReference reports whether err is a dangling-reference error.
func IsDanglingReference(err error) bool {
	return IsType(err, ErrorTypeDanglingReference)
}

// IsVersionConflict reports whether err is a version-conflict error.
func IsVersionConflict(err error) bool {
	return IsType(err, ErrorTypeVersionConflict)
}

// IsAlreadyExists reports whether err is an already-exists error.
func IsAlreadyExists(err error) bool {
	return IsType(err, ErrorTypeAlreadyExists)
}
