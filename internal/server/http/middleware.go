package http

import (
	"strings"

	"checkers/internal/core"

	"github.com/gofiber/fiber/v2"
)

// SeatRequired rejects requests without a bearer seat token and stores the
// raw token for the handler. Signature and seat are checked by the processor.
func SeatRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c.Get("Authorization"))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error: "missing seat token",
				Code:  core.ErrUnauthorized,
			})
		}

		c.Locals("seatToken", token)
		return c.Next()
	}
}

// extractBearerToken extracts JWT token from Authorization header
func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
