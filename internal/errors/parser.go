package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a code and message pair safe to show to shoppers
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns infrastructure errors into an ErrorInfo without leaking SQL or hostnames.
// context names the resource involved, e.g. "product".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: getDefaultErrorMessage(context),
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	errLower := strings.ToLower(err.Error())

	// 23505
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This record already exists",
		}
	}

	// 23502
	if strings.Contains(errLower, "violates not-null constraint") || strings.Contains(errLower, "not null constraint failed") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	if strings.Contains(errLower, "sqlstate") || strings.Contains(errLower, "database is locked") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: getDefaultErrorMessage(context),
		}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") ||
		strings.Contains(errLower, "deadline exceeded") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Could not reach a required service. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func getNotFoundMessage(context string) string {
	switch {
	case strings.Contains(context, "product"):
		return "Product not found"
	case strings.Contains(context, "cart"):
		return "Cart item not found"
	default:
		return "Not found"
	}
}

func getDefaultErrorMessage(context string) string {
	if context == "" {
		return "Something went wrong. Please try again later"
	}
	return "Failed to process " + context + ". Please try again later"
}
