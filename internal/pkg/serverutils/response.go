package serverutils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// BaseResponse is the envelope every endpoint returns.
type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
	Code    int    `json:"code,omitempty"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Message: message,
		Code:    code,
	}
}

var validate = validator.New()

// ValidateRequest runs struct tag validation and flattens the first failure
// into a readable message.
func ValidateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("field %s failed validation on %s", f.Field(), f.Tag())
		}
		return err
	}
	return nil
}

// ErrorHandlerMiddleware recovers panics and maps fiber errors into the
// standard envelope so clients never see a bare 500 body.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				_ = ctx.Status(fiber.StatusInternalServerError).
					JSON(ErrorResponse(fiber.StatusInternalServerError, fmt.Sprintf("internal error: %v", r)))
			}
		}()

		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}
