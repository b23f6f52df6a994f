package server

import (
	"log/slog"
	"time"

	"respite/app/model"
	"respite/app/service/mediator"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleSuggest(c *fiber.Ctx) error {
	start := time.Now()

	var payload model.AIRequestPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody{
			Error: "request body is not valid JSON",
			Code:  mediator.CodeInvalidRequest,
		})
	}

	identity := s.resolveIdentity(c, payload.DeviceID)

	resp, apiErr := s.mediatorSvc.Suggest(c.Context(), identity, payload)
	if apiErr != nil {
		slog.Info("Suggestion request rejected",
			"identity", identity,
			"code", apiErr.Code,
			"status", apiErr.Status,
			"duration", time.Since(start))

		return c.Status(apiErr.Status).JSON(errorBody{
			Error: apiErr.Message,
			Code:  apiErr.Code,
		})
	}

	slog.Info("Suggestion served",
		"identity", identity,
		"response_type", resp.ResponseType,
		"rate_limit_warning", resp.RateLimitWarning,
		"duration", time.Since(start))

	return c.JSON(resp)
}
