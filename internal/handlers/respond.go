package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error kinds surfaced to clients alongside the human-readable message
const (
	CodeUnauthenticated  = "unauthenticated"
	CodeInvalidArgument  = "invalid-argument"
	CodeNotFound         = "not-found"
	CodePermissionDenied = "permission-denied"
	CodeInternal         = "internal"
)

var statusForCode = map[string]int{
	CodeUnauthenticated:  http.StatusUnauthorized,
	CodeInvalidArgument:  http.StatusBadRequest,
	CodeNotFound:         http.StatusNotFound,
	CodePermissionDenied: http.StatusForbidden,
	CodeInternal:         http.StatusInternalServerError,
}

// ErrorResponse sends a structured error with its kind and message
func ErrorResponse(c *gin.Context, code, message string) {
	status, ok := statusForCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": message, "code": code})
}
