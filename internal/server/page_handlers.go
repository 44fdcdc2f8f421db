package server

import (
	"context"

	"hearth/internal/forms"
	"hearth/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Home renders the landing page with all posts newest first.
func (s *Server) Home(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.Context())
	if err != nil {
		return err
	}
	return s.render(c, "home", fiber.Map{"Posts": posts})
}

// PostsPage renders the post archive, newest first.
func (s *Server) PostsPage(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.Context())
	if err != nil {
		return err
	}
	return s.render(c, "posts", fiber.Map{"Posts": posts})
}

func commentSchema() forms.Schema {
	return forms.Schema{
		Name: "comment",
		Fields: []forms.Field{
			{Name: "comment", Label: "Comment", Validators: []forms.Validator{forms.Required("Comment")}},
		},
	}
}

// ShowPost renders one post with its comments and the comment form.
func (s *Server) ShowPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return err
	}
	comments, err := s.commentService.ListComments(c.Context(), id)
	if err != nil {
		return err
	}

	return s.render(c, "post", fiber.Map{
		"Post":     post,
		"Comments": comments,
		"Errors":   map[string]string{},
		"Values":   map[string]string{},
	})
}

// CreateComment accepts a comment on a post from an authenticated reader and
// re-renders the post page.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return err
	}

	res := commentSchema().Validate(contextOf(c), func(name string) string { return c.FormValue(name) })
	if !res.Valid() {
		comments, listErr := s.commentService.ListComments(c.Context(), id)
		if listErr != nil {
			return listErr
		}
		return s.render(c, "post", fiber.Map{
			"Post":     post,
			"Comments": comments,
			"Errors":   res.Errors,
			"Values":   res.Values,
		})
	}

	if _, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		AuthorID: s.currentUser(c).ID,
		PostID:   id,
		Text:     res.Value("comment"),
	}); err != nil {
		return err
	}

	return c.Redirect("/post/"+c.Params("id"), fiber.StatusSeeOther)
}

// contextOf adapts a fiber ctx for validator chains that take a
// context.Context.
func contextOf(c *fiber.Ctx) context.Context {
	return c.UserContext()
}
