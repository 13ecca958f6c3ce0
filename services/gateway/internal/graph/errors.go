package graph

import (
	"errors"

	"example.com/fitness/libs/go/apperr"
)

// Codes carried in extensions.code.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeBadUserInput  = "BAD_USER_INPUT"
	CodeInternalError = "INTERNAL_ERROR"
)

// Error is a resolver failure exposing its code to clients.
type Error struct {
	Message string
	Code    string
}

func (e *Error) Error() string { return e.Message }

// Extensions is read by the executor when building the response error.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

func toGraphError(err error) error {
	if err == nil {
		return nil
	}
	code := CodeInternalError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		code = CodeNotFound
	case errors.Is(err, apperr.ErrValidation):
		code = CodeBadUserInput
	}
	return &Error{Message: err.Error(), Code: code}
}
