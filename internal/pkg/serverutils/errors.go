package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// AppError is a domain error with a stable HTTP status mapping.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

var (
	// ErrDuplicateName: creating a discussion whose name already exists.
	ErrDuplicateName = NewAppError(fiber.StatusConflict, "name of discussion should be unique")

	// ErrForbidden: wrong password on a private discussion.
	ErrForbidden = NewAppError(fiber.StatusForbidden, "password of this discussion not correct")

	// ErrExpired: limited discussion past its deadline, closed on this access.
	ErrExpired = NewAppError(fiber.StatusConflict, "this discussion has expired")

	// ErrNotFound: discussion purged or never existed.
	ErrNotFound = NewAppError(fiber.StatusNotFound, "this discussion not found")

	// ErrValidation: malformed create/join payload.
	ErrValidation = NewAppError(fiber.StatusBadRequest, "invalid request payload")
)

// ErrorHandlerMiddleware renders AppErrors with their mapped status and
// everything else as a 500, using the standard response envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			return ctx.Status(appErr.Code).JSON(fiber.Map{
				"success": false,
				"code":    appErr.Code,
				"message": appErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{
				"success": false,
				"code":    fiberErr.Code,
				"message": fiberErr.Message,
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    fiber.StatusInternalServerError,
			"message": err.Error(),
		})
	}
}
