package transport

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/verdict-com/verdict/server/store"
)

// Error codes carried in the response envelope.
const (
	CodeUnauthorized       = 1001
	CodeForbidden          = 1002
	CodeInvalidCredentials = 1003
	CodeAccountExists      = 1004
	CodeInvalidEmail       = 1006
	CodeWeakPassword       = 1007
	CodePasswordMismatch   = 1011
	CodeInvalidNickname    = 1012
	CodeInvalidInput       = 2001
	CodeConflict           = 2002
	CodeServerError        = 5000
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func WriteError(c *gin.Context, status int, code int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message})
}

// WriteStoreError maps the store sentinels shared by most handlers.
func WriteStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidInput):
		WriteError(c, http.StatusBadRequest, CodeInvalidInput, "invalid input")
	case errors.Is(err, store.ErrNotFound):
		WriteError(c, http.StatusNotFound, CodeInvalidInput, "not found")
	case errors.Is(err, store.ErrForbidden):
		WriteError(c, http.StatusForbidden, CodeForbidden, "forbidden")
	case errors.Is(err, store.ErrAlreadyAccepted):
		WriteError(c, http.StatusConflict, CodeConflict, "opinion already accepted")
	default:
		WriteError(c, http.StatusInternalServerError, CodeServerError, "server error")
	}
}

func ParsePositiveInt(value string, fallback int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
