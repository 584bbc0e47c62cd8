package apperrors

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler converts errors returned by handlers into JSON responses.
// It is installed as the Fiber app's error handler, so handlers can return
// typed errors instead of building responses inline.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := From(err); ok {
		if appErr.Kind == KindInternal {
			// The wrapped cause may contain SQL text or driver detail;
			// log it and send only the sanitized message.
			log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), err)
		}
		body := fiber.Map{"message": appErr.Message}
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		return c.Status(appErr.StatusCode()).JSON(body)
	}

	// Fiber's own errors (404 on unknown routes, body limits, ...).
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
}
