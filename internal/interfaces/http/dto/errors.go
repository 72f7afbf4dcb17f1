package dto

import "net/http"

// Error codes returned by the API. Domain error codes map onto these
// categories; unmapped codes pass through with a 422 status since they
// always signal a rejected business operation.
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	ErrCodeValidation = "ERR_VALIDATION"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeConstraintViolated  = "ERR_CONSTRAINT_VIOLATED"
	ErrCodeMissingIssueTarget  = "ERR_MISSING_ISSUE_TARGET"
	ErrCodeOrphanUsage         = "ERR_ORPHAN_USAGE"
)

// errorCodeHTTPStatus maps API error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeConstraintViolated: http.StatusUnprocessableEntity,
	ErrCodeMissingIssueTarget: http.StatusUnprocessableEntity,
	ErrCodeOrphanUsage:        http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an API error code.
// Unknown codes are treated as rejected business operations (422).
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}

// domainCodeMapping translates domain error codes to API error codes
var domainCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INVALID_STATE":        ErrCodeInvalidState,
	"CONSTRAINT_VIOLATED":  ErrCodeConstraintViolated,
	"MISSING_ISSUE_TARGET": ErrCodeMissingIssueTarget,
	"ORPHAN_USAGE":         ErrCodeOrphanUsage,
	"INVALID_INPUT":        ErrCodeBadRequest,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes without an explicit mapping are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
