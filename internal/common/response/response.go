// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hotelhub/service-booking/internal/common/domain"
)

// ErrorBody is the error part of the envelope.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Envelope is the top-level response shape.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Meta    *PageMeta  `json:"meta,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// PageMeta carries pagination metadata for list responses.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// Success writes a 200 response.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes a 200 list response with pagination metadata.
func Paginated(c *gin.Context, items any, total int64, page, limit int) {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    items,
		Meta: &PageMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	})
}

// BadRequest writes a 400 validation response.
func BadRequest(c *gin.Context, message string) {
	writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", message, nil)
}

// Unauthorized writes a 401 response.
func Unauthorized(c *gin.Context, message string) {
	writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

// Forbidden writes a 403 response.
func Forbidden(c *gin.Context, message string) {
	writeError(c, http.StatusForbidden, "FORBIDDEN", message, nil)
}

// Error maps err onto an HTTP status and writes it. Errors that are not
// DomainErrors are reported as 500 without leaking their text.
func Error(c *gin.Context, err error) {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
		return
	}
	writeError(c, StatusFor(de.Kind), strings.ToUpper(string(de.Kind)), de.Message, de.Details)
}

// StatusFor returns the HTTP status for a domain error kind.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict, domain.KindRoomUnavailable:
		return http.StatusConflict
	case domain.KindInvalidState,
		domain.KindInvalidStatusTransition,
		domain.KindInvalidStatusForTransfer,
		domain.KindPaymentImmutable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, status int, code, message string, details map[string]any) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
