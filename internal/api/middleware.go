package api

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) authMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" {
			return c.Status(401).JSON(fiber.Map{"error": "missing authorization header"})
		}

		tokenString := strings.TrimPrefix(auth, "Bearer ")
		if !s.auth.Validate(tokenString) {
			return c.Status(401).JSON(fiber.Map{"error": "invalid token"})
		}

		c.Locals("token", tokenString)
		return c.Next()
	}
}

func (s *Server) countRequests() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		s.metrics.HTTPRequests.WithLabelValues(c.Method(), fmt.Sprintf("%dxx", status/100)).Inc()
		return err
	}
}
