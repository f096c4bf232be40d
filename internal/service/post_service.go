package service

import (
	"context"
	"strings"

	"murmur/internal/models"
	"murmur/internal/observability"
	"murmur/internal/repository"
	"murmur/internal/validation"
)

// PostService owns post CRUD and its authorship rules.
type PostService struct {
	posts repository.PostRepository
	users repository.UserRepository
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository) *PostService {
	return &PostService{posts: posts, users: users}
}

type CreatePostInput struct {
	UserID  uint   `json:"-"`
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

// UpdatePostInput leaves a field unchanged when its pointer is nil.
type UpdatePostInput struct {
	UserID  uint    `json:"-"`
	PostID  uint    `json:"-"`
	Title   *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

type ListPostsInput struct {
	Search   string
	AuthorID uint
	ViewerID uint
}

// CreatePost stores a post authored by in.UserID, whatever the request body said.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.CreatePost", observability.UserAttr(in.UserID))
	defer span.End()

	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:   in.Title,
		Content: in.Content,
		UserID:  in.UserID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}
	return s.posts.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	return s.posts.GetByID(ctx, postID, viewerID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	return s.posts.List(ctx, repository.PostFilter{
		AuthorID: in.AuthorID,
		Search:   in.Search,
	}, in.ViewerID)
}

// UpdatePost applies the supplied fields; only the author or an admin may edit.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.UpdatePost",
		observability.UserAttr(in.UserID), observability.PostAttr(in.PostID))
	defer span.End()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.users, in.UserID, post.UserID); err != nil {
		return nil, err
	}

	if in.Title != nil {
		post.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		post.Content = strings.TrimSpace(*in.Content)
	}
	if post.Title == "" || post.Content == "" {
		return nil, models.NewValidationError("title and content cannot be empty")
	}

	if err := s.posts.Update(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}
	return s.posts.GetByID(ctx, post.ID, in.UserID)
}

// DeletePost soft-deletes a post; only the author or an admin may delete.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	authorID, err := s.posts.AuthorID(ctx, postID)
	if err != nil {
		return err
	}
	if err := authorize(ctx, s.users, userID, authorID); err != nil {
		return err
	}
	return s.posts.Delete(ctx, postID)
}
