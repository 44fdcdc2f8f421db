// Package service implements business rules over the repositories.
package service

import (
	"context"
	"time"

	"hearth/internal/models"
	"hearth/internal/repository"
)

// PostService owns post lifecycle rules: creation stamps the display date,
// edits never touch it, deletion cascades to comments.
type PostService struct {
	postRepo repository.PostRepository
}

// PostInput carries the admin-submitted post fields.
type PostInput struct {
	Title       string
	Description string
	Author      string
	ImageURL    string
	Body        string
	Featured    bool
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// CreatePost persists a new post stamped with today's display date.
func (s *PostService) CreatePost(ctx context.Context, in PostInput) (*models.Post, error) {
	post := &models.Post{
		Title:       in.Title,
		Description: in.Description,
		Date:        time.Now().Format(models.DateLayout),
		Author:      in.Author,
		ImageURL:    in.ImageURL,
		Body:        in.Body,
		Featured:    in.Featured,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// EditPost updates an existing post's fields. The original date is kept.
func (s *PostService) EditPost(ctx context.Context, id uint, in PostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Description = in.Description
	post.Author = in.Author
	post.ImageURL = in.ImageURL
	post.Body = in.Body
	post.Featured = in.Featured

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post and its comments.
func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	return s.postRepo.Delete(ctx, id)
}

// GetPost fetches one post by id.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// ListPosts returns all posts newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.List(ctx)
}
