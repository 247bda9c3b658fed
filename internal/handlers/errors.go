package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/almajid/internal/apperrors"
)

// ErrorHandler renders every error returned by a handler as
// {"success": false, "error": ..., "fields": ...}.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := apperrors.HTTPStatus(err)
		body := fiber.Map{"success": false, "error": err.Error()}

		var verr *apperrors.ErrValidation
		if errors.As(err, &verr) && len(verr.Fields) > 0 {
			body["fields"] = verr.Fields
		}
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
			if status == fiber.StatusInternalServerError {
				body["error"] = "internal server error"
			}
		}
		return c.Status(status).JSON(body)
	}
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, apperrors.Validation(param, "invalid id")
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return &apperrors.ErrValidation{Message: "invalid request body"}
	}
	return nil
}
