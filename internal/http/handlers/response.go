package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"accountd/internal/apperr"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

type ErrorDetail struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Envelope is the uniform response shape of every endpoint except
// /users/context, which returns its DTO bare.
type Envelope struct {
	Status   string        `json:"status"`
	Response any           `json:"response,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
}

func ok(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, Envelope{Status: StatusSuccess, Response: payload})
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), Envelope{
		Status: StatusFailure,
		Errors: []ErrorDetail{{
			Error:   apperr.CodeOf(err),
			Message: apperr.MessageOf(err),
		}},
	})
}

func failValidation(c *gin.Context, message string) {
	fail(c, apperr.Validation(apperr.CodeMissingInput, message))
}

func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindBusiness:
		return http.StatusBadRequest
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindConflict:
		// Retryable: concurrent first-signup race on the uniqueness constraint.
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
