package server

import (
	"errors"

	"folio/internal/models"
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Page is the body every page handler renders: the template a front end
// should use and the values it is filled with.
type Page struct {
	View string    `json:"view"`
	Data fiber.Map `json:"data"`
}

// render writes a page view model. Every page carries the copyright year.
func (s *Server) render(c *fiber.Ctx, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["copyright_year"] = service.CopyrightYear(s.now())
	return c.JSON(Page{View: view, Data: data})
}

// respondError maps an AppError code to its status and writes the JSON error body.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status == fiber.StatusInternalServerError && !models.HasCode(err, models.CodeInternal) {
		err = models.NewInternalError(err)
	}
	return models.RespondWithError(c, status, err)
}

// parseID extracts a route parameter as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseID(c *fiber.Ctx, param, label string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+label))
		return 0, errResponseWritten
	}
	return uint(id), nil
}
