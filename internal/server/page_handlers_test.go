package server

import (
	"context"
	"net/url"
	"testing"

	"hearth/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPost(t *testing.T, s *Server, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:       title,
		Description: "A description",
		Date:        "Jan 02, 2026",
		Body:        "<p>Hello from " + title + "</p>",
		Author:      "The Keeper",
		ImageURL:    "https://example.com/cover.png",
	}
	require.NoError(t, s.posts.Create(context.Background(), post))
	return post
}

func TestShowPost_RendersBodyAndComments(t *testing.T) {
	s, client, _ := newTestServer(t)
	post := createPost(t, s, "Ashes and Embers")
	author := createUser(t, s, "thrall", "password", false)

	require.NoError(t, s.comments.Create(context.Background(), &models.Comment{
		Text: "A fine read.", AuthorID: author.ID, PostID: post.ID,
	}))

	resp := client.get("/post/1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)

	assert.Contains(t, body, "Ashes and Embers")
	// Rich-text bodies render as HTML, not escaped text.
	assert.Contains(t, body, "<p>Hello from Ashes and Embers</p>")
	assert.Contains(t, body, "A fine read.")
	assert.Contains(t, body, "thrall")
}

func TestCreateComment_RequiresLogin(t *testing.T) {
	s, client, _ := newTestServer(t)
	createPost(t, s, "Ashes and Embers")

	resp := client.postForm("/post/1", url.Values{"comment": {"drive-by"}})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCreateComment_Success(t *testing.T) {
	s, client, _ := newTestServer(t)
	createPost(t, s, "Ashes and Embers")
	createUser(t, s, "thrall", "password", false)
	login(t, client, "thrall", "password")

	resp := client.postForm("/post/1", url.Values{"comment": {"Wonderful post!"}})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/post/1", resp.Header.Get("Location"))

	// The comment is bound to the post and its author.
	resp = client.get("/post/1")
	body := readBody(t, resp)
	assert.Contains(t, body, "Wonderful post!")
	assert.Contains(t, body, "thrall")

	comments, err := s.comments.ListByPost(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "thrall", comments[0].Author.Username)
}

func TestCreateComment_EmptyText(t *testing.T) {
	s, client, _ := newTestServer(t)
	createPost(t, s, "Ashes and Embers")
	createUser(t, s, "thrall", "password", false)
	login(t, client, "thrall", "password")

	resp := client.postForm("/post/1", url.Values{"comment": {"   "}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Comment is required")

	comments, err := s.comments.ListByPost(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCreateComment_MissingPost(t *testing.T) {
	s, client, _ := newTestServer(t)
	createUser(t, s, "thrall", "password", false)
	login(t, client, "thrall", "password")

	resp := client.postForm("/post/99", url.Values{"comment": {"into the void"}})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
