package serverutils

import (
	"errors"

	"ai-policyassist-be/internal/service"
	"ai-policyassist-be/pkg/artifact"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps service errors onto HTTP statuses. Typed
// domain failures become 404s with their message; everything else is a
// generic 500 so internals never leak.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		switch {
		case errors.Is(err, artifact.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse("could not locate file"))
		case errors.Is(err, service.ErrSessionNotFound),
			errors.Is(err, service.ErrTurnNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(err.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}
