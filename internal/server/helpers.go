package server

import (
	"hearth/internal/models"
	"hearth/internal/session"

	"github.com/gofiber/fiber/v2"
)

// currentUser returns the request's authenticated user, or nil for anonymous
// clients. LoadUser populates it once per request.
func (s *Server) currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("currentUser").(*models.User)
	return user
}

// render wraps c.Render with the per-request identity and flash message every
// page receives. Handlers pass only their own data.
func (s *Server) render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	user := s.currentUser(c)
	data["LoggedIn"] = user.IsAuthenticated()
	data["CurrentUser"] = user
	// Handlers that re-render immediately pass Flash themselves; the session
	// flash only survives a redirect.
	if _, ok := data["Flash"]; !ok {
		if msg := session.PopFlash(c, s.sessions); msg != "" {
			data["Flash"] = msg
		}
	}
	return c.Render(name, data, "layouts/main")
}

// parseID extracts a route parameter as a positive uint, or reports a
// not-found page for garbage ids.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, models.NewNotFoundError("Post", c.Params(param))
	}
	return uint(id), nil
}
