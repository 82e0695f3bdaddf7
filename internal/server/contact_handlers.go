package server

import (
	"folio/internal/models"
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ContactForm renders the empty contact form.
func (s *Server) ContactForm(c *fiber.Ctx) error {
	return s.render(c, "contact.html", fiber.Map{"message_sent": false})
}

// SubmitContact relays the form to the site owner's mailbox.
func (s *Server) SubmitContact(c *fiber.Ctx) error {
	var form models.ContactMessage
	if parseErr := c.BodyParser(&form); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	err := s.contactService.Send(c.UserContext(), service.ContactInput{
		Name:    form.Name,
		Email:   form.Email,
		Message: form.Message,
	})
	if err != nil {
		return respondError(c, err)
	}

	return s.render(c, "contact.html", fiber.Map{"message_sent": true})
}
