package service

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	apperrors "github.com/dirkit/user-directory/pkg/util/errorutil"
)

// Failure kinds. Every error returned by the services is a
// *apperrors.DomainError wrapping one of these.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRepository         = errors.New("repository failure")
)

func invalidInput(err error) error {
	details := map[string]any{}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		for field, fieldErr := range fieldErrs {
			details[field] = fieldErr.Error()
		}
	}
	return &apperrors.DomainError{
		Code:       "INVALID_INPUT",
		Message:    "incorrect inputs",
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
		Err:        ErrInvalidInput,
	}
}

func usernameTaken() error {
	return &apperrors.DomainError{
		Code:       "USERNAME_TAKEN",
		Message:    "username already taken",
		HTTPStatus: http.StatusConflict,
		Err:        ErrUsernameTaken,
	}
}

func userNotFound() error {
	return &apperrors.DomainError{
		Code:       "USER_NOT_FOUND",
		Message:    "user not found",
		HTTPStatus: http.StatusNotFound,
		Err:        ErrUserNotFound,
	}
}

func invalidCredentials() error {
	return &apperrors.DomainError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "invalid credentials",
		HTTPStatus: http.StatusUnauthorized,
		Err:        ErrInvalidCredentials,
	}
}

// repositoryError hides the cause from clients; it is only logged.
func repositoryError(cause error) error {
	return &apperrors.DomainError{
		Code:       "REPOSITORY_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        fmt.Errorf("%w: %w", ErrRepository, cause),
	}
}
