package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/meteosonora/globalmet-stats/internal/weather"
)

// statusByKind is the single mapping from domain error kinds to HTTP status
// codes.
var statusByKind = map[weather.ErrorKind]int{
	weather.ErrInvalidDate: fiber.StatusBadRequest,
	weather.ErrInvalidUnit: fiber.StatusBadRequest,
	weather.ErrUpstream:    fiber.StatusServiceUnavailable,
	weather.ErrNoData:      fiber.StatusNotFound,
	weather.ErrNoDataFound: fiber.StatusNotFound,
}

// ErrorHandler is the centralized Fiber error handler. Domain errors map
// through statusByKind; anything unexpected becomes a 500 with a generic
// message so internals never leak to clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var apiErr *weather.Error
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &apiErr):
		if status, ok := statusByKind[apiErr.Kind]; ok {
			code = status
		}
		message = apiErr.Error()
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
