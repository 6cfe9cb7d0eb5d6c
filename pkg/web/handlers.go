package web

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const checkTimeout = 5 * time.Second

// handleHealth probes every registered dependency. Any failure turns
// the response 503 so orchestrators restart or route around us.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), checkTimeout)
	defer cancel()

	results := make(map[string]string, len(s.checks))
	healthy := true
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn("health check failed", "check", name, "error", err)
			results[name] = err.Error()
			healthy = false
			continue
		}
		results[name] = "ok"
	}

	status := "ok"
	code := fiber.StatusOK
	if !healthy {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": results,
	})
}

// handleStatus reports uptime and traffic counters.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"started_at":        s.started.UTC().Format(time.RFC3339),
		"uptime_seconds":    int64(time.Since(s.started).Seconds()),
		"messages_received": s.messagesReceived.Load(),
		"replies_sent":      s.repliesSent.Load(),
	})
}
