package server

import (
	"errors"
	"strconv"
	"strings"

	"inkwell/internal/generator"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maxPaginationLimit = 100

// errResponseWritten signals that the helper already wrote the error
// response and the handler should just return nil.
var errResponseWritten = errors.New("response written")

// parsePagination reads limit/offset query params with bounds checking.
func parsePagination(c *fiber.Ctx) (limit, offset int, err error) {
	limit, err = strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 || limit > maxPaginationLimit {
		return 0, 0, models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid limit parameter (1-100)"))
	}

	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid offset parameter"))
	}

	return limit, offset, nil
}

// parseID parses a route param as uint. On failure it writes a 400
// response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

func humanizeParam(param string) string {
	switch param {
	case "id":
		return "ID"
	case "commentId":
		return "comment ID"
	default:
		return strings.ToLower(param)
	}
}

// respondServiceError maps service-layer errors onto HTTP statuses.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		case "UPSTREAM_ERROR":
			return models.RespondWithError(c, fiber.StatusBadGateway, appErr)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, appErr)
	}

	var stageErr *generator.StageError
	if errors.As(err, &stageErr) {
		return models.RespondWithError(c, fiber.StatusBadGateway, err)
	}

	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

// currentUserID returns the authenticated user ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}
