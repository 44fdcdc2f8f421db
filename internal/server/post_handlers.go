package server

import (
	"errors"

	"hearth/internal/forms"
	"hearth/internal/models"
	"hearth/internal/service"

	"github.com/gofiber/fiber/v2"
)

func postSchema() forms.Schema {
	return forms.Schema{
		Name: "post",
		Fields: []forms.Field{
			{Name: "title", Label: "Blog post title", Validators: []forms.Validator{forms.Required("Blog post title")}},
			{Name: "description", Label: "Blog post description", Validators: []forms.Validator{forms.Required("Blog post description")}},
			{Name: "author", Label: "Your name", Validators: []forms.Validator{forms.Required("Your name")}},
			{Name: "img", Label: "Blog image URL", Validators: []forms.Validator{
				forms.Required("Blog image URL"), forms.URLShape(),
			}},
			{Name: "featured", Label: "Featured", Validators: []forms.Validator{
				forms.Required("Featured"), forms.OneOf("Featured", "True", "False"),
			}},
			{Name: "body", Label: "Blog body", Validators: []forms.Validator{forms.Required("Blog body")}},
		},
	}
}

// featuredChoice maps the stored flag back to its form select value.
func featuredChoice(featured bool) string {
	if featured {
		return "True"
	}
	return "False"
}

func postInputFrom(res *forms.Result) service.PostInput {
	return service.PostInput{
		Title:       res.Value("title"),
		Description: res.Value("description"),
		Author:      res.Value("author"),
		ImageURL:    res.Value("img"),
		Body:        res.Value("body"),
		Featured:    res.Value("featured") == "True",
	}
}

// NewPostPage renders the empty post form.
func (s *Server) NewPostPage(c *fiber.Ctx) error {
	return s.render(c, "new_post", fiber.Map{
		"Errors": map[string]string{},
		"Values": map[string]string{"featured": "False"},
	})
}

// CreatePost persists a new post and redirects back to the form,
// redirect-after-write.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	res := postSchema().Validate(contextOf(c), func(name string) string { return c.FormValue(name) })
	if !res.Valid() {
		return s.render(c, "new_post", fiber.Map{
			"Errors": res.Errors,
			"Values": res.Values,
		})
	}

	if _, err := s.postService.CreatePost(c.Context(), postInputFrom(res)); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			// Duplicate title caught by the storage layer.
			return s.render(c, "new_post", fiber.Map{
				"Errors": map[string]string{"title": appErr.Message},
				"Values": res.Values,
			})
		}
		return err
	}

	return c.Redirect("/new-post", fiber.StatusSeeOther)
}

// EditPostPage renders the post form pre-filled from the stored record,
// including the featured flag as a True/False choice.
func (s *Server) EditPostPage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return err
	}

	return s.render(c, "edit_post", fiber.Map{
		"Post":   post,
		"Errors": map[string]string{},
		"Values": map[string]string{
			"title":       post.Title,
			"description": post.Description,
			"author":      post.Author,
			"img":         post.ImageURL,
			"featured":    featuredChoice(post.Featured),
			"body":        post.Body,
		},
	})
}

// UpdatePost applies edited fields to an existing post. The original date is
// never altered. Redirects to the post page.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return err
	}

	res := postSchema().Validate(contextOf(c), func(name string) string { return c.FormValue(name) })
	if !res.Valid() {
		return s.render(c, "edit_post", fiber.Map{
			"Post":   post,
			"Errors": res.Errors,
			"Values": res.Values,
		})
	}

	if _, err := s.postService.EditPost(c.Context(), id, postInputFrom(res)); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			return s.render(c, "edit_post", fiber.Map{
				"Post":   post,
				"Errors": map[string]string{"title": appErr.Message},
				"Values": res.Values,
			})
		}
		return err
	}

	return c.Redirect("/post/"+c.Params("id"), fiber.StatusSeeOther)
}

// DeletePost removes a post and its comments, then returns to the archive.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := s.postService.DeletePost(c.Context(), id); err != nil {
		return err
	}
	return c.Redirect("/posts", fiber.StatusSeeOther)
}
