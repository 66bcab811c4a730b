package handlers

import (
	"errors"
	"log"
	"strconv"

	"library-lending/internal/core/domain"
	"library-lending/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error to its HTTP status.
// Unknown errors are logged and answered with fallback.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrBookUnavailable),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrDuplicateEntry),
		errors.Is(err, domain.ErrActiveLoans):
		return response.Conflict(c, err.Error())
	}

	log.Printf("❌ %s: %v", fallback, err)
	return response.InternalServerError(c, fallback)
}

// parseID reads a positive numeric path parameter
func parseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
