package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetSettings returns one settings document by name, with defaults
// filled in for fields that were never written.
func (s *Server) GetSettings(c *fiber.Ctx) error {
	ctx := c.UserContext()
	switch c.Params("name") {
	case models.SettingsGeneral:
		general, err := s.settingsService.GetGeneral(ctx)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(general)
	case models.SettingsAppearance:
		appearance, err := s.settingsService.GetAppearance(ctx)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(appearance)
	case models.SettingsSEO:
		seo, err := s.settingsService.GetSEO(ctx)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(seo)
	}
	return models.RespondWithError(c, fiber.StatusNotFound,
		models.NewNotFoundError("Settings", c.Params("name")))
}

// UpdateSettings replaces one settings document. Each name has its own
// schema; unknown names are rejected rather than stored blindly.
func (s *Server) UpdateSettings(c *fiber.Ctx) error {
	ctx := c.UserContext()
	name := c.Params("name")

	switch name {
	case models.SettingsGeneral:
		var in models.GeneralSettings
		if err := c.BodyParser(&in); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		if err := s.settingsService.SetGeneral(ctx, in); err != nil {
			return respondServiceError(c, err)
		}
		s.reloadSchedule(c, in.Schedule)
		return c.JSON(in)
	case models.SettingsAppearance:
		var in models.AppearanceSettings
		if err := c.BodyParser(&in); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		if err := s.settingsService.SetAppearance(ctx, in); err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(in)
	case models.SettingsSEO:
		var in models.SEOSettings
		if err := c.BodyParser(&in); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		if err := s.settingsService.SetSEO(ctx, in); err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(in)
	}
	return models.RespondWithError(c, fiber.StatusNotFound,
		models.NewNotFoundError("Settings", name))
}

// reloadSchedule re-applies the cron trigger after the general
// settings change. A bad schedule is logged but does not fail the
// settings write, which has already been persisted.
func (s *Server) reloadSchedule(c *fiber.Ctx, schedule models.ScheduleSettings) {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.Apply(schedule, s.runScheduledGeneration); err != nil {
		middleware.Logger.WarnContext(c.UserContext(),
			"failed to apply generation schedule", "error", err)
	}
}
