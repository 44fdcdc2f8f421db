package server

import (
	"errors"
	"log/slog"

	"hearth/internal/forms"
	"hearth/internal/mail"
	"hearth/internal/middleware"
	"hearth/internal/models"
	"hearth/internal/session"

	"github.com/gofiber/fiber/v2"
)

func contactSchema() forms.Schema {
	return forms.Schema{
		Name: "contact",
		Fields: []forms.Field{
			{Name: "name", Label: "Name", Validators: []forms.Validator{forms.Required("Name")}},
			{Name: "email", Label: "Email", Validators: []forms.Validator{
				forms.Required("Email"), forms.EmailShape(),
			}},
			{Name: "message", Label: "Message", Validators: []forms.Validator{forms.Required("Message")}},
		},
	}
}

// ContactPage renders the contact form.
func (s *Server) ContactPage(c *fiber.Ctx) error {
	return s.render(c, "contact", fiber.Map{
		"Errors": map[string]string{},
		"Values": map[string]string{},
	})
}

// SubmitContact relays a valid submission to the fixed recipient and
// redirects back to the form. A failed send is reported on the form instead
// of crashing the request.
func (s *Server) SubmitContact(c *fiber.Ctx) error {
	res := contactSchema().Validate(contextOf(c), func(name string) string { return c.FormValue(name) })
	if !res.Valid() {
		return s.render(c, "contact", fiber.Map{
			"Errors": res.Errors,
			"Values": res.Values,
		})
	}

	msg := mail.ContactMessage(
		s.config.ContactEmail,
		res.Value("name"),
		res.Value("email"),
		res.Value("message"),
	)
	if err := s.mailer.Send(c.Context(), msg); err != nil {
		middleware.MailSendFailures.WithLabelValues("contact").Inc()
		middleware.Logger.ErrorContext(c.UserContext(), "contact mail failed",
			slog.String("error", err.Error()))

		message := "Could not send your message right now. Please try again later."
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "MAIL_ERROR" {
			message = appErr.Message + ". Please try again later."
		}
		return s.render(c, "contact", fiber.Map{
			"Errors": map[string]string{"message": message},
			"Values": res.Values,
		})
	}

	if err := session.Flash(c, s.sessions, "Thanks, your message has been sent."); err != nil {
		return models.NewInternalError(err)
	}
	return c.Redirect("/contact", fiber.StatusSeeOther)
}
