package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type generateRequest struct {
	OverrideTopic  string `json:"overrideTopic"`
	OverridePrompt string `json:"overridePrompt"`
}

// GeneratePost runs the full content generation pipeline synchronously
// and returns the resulting post. Progress events stream over the
// generation WebSocket while this request is in flight.
func (s *Server) GeneratePost(c *fiber.Ctx) error {
	var req generateRequest
	// An empty body is fine: generation falls back to configured settings.
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}

	post, err := s.generationService.Generate(c.UserContext(), service.GenerateInput{
		OverrideTopic:  req.OverrideTopic,
		OverridePrompt: req.OverridePrompt,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}
