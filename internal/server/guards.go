package server

import (
	"hearth/internal/session"

	"github.com/gofiber/fiber/v2"
)

// LoadUser resolves the session's user id to a User record and stores it in
// the request locals. Anonymous or stale sessions leave the locals unset; the
// anonymous sentinel is a nil *models.User.
func (s *Server) LoadUser(c *fiber.Ctx) error {
	if id, ok := session.UserID(c, s.sessions); ok {
		if user, err := s.users.GetByID(c.Context(), id); err == nil {
			c.Locals("currentUser", user)
			c.Locals("userID", user.ID)
		}
	}
	return c.Next()
}

// AuthRequired rejects anonymous clients with 403 before the handler runs.
func (s *Server) AuthRequired(c *fiber.Ctx) error {
	if !s.currentUser(c).IsAuthenticated() {
		return fiber.ErrForbidden
	}
	return c.Next()
}

// AdminOnly rejects everyone but authenticated admins with 403 before the
// handler runs.
func (s *Server) AdminOnly(c *fiber.Ctx) error {
	user := s.currentUser(c)
	if !user.IsAuthenticated() || !user.IsAdmin {
		return fiber.ErrForbidden
	}
	return c.Next()
}

// LoggedOutOnly rejects already-authenticated clients with 403; register and
// login only make sense for anonymous visitors.
func (s *Server) LoggedOutOnly(c *fiber.Ctx) error {
	if s.currentUser(c).IsAuthenticated() {
		return fiber.ErrForbidden
	}
	return c.Next()
}
