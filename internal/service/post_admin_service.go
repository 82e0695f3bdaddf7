package service

import (
	"context"
	"log/slog"
	"strings"

	"folio/internal/featureflags"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/repository"

	"github.com/microcosm-cc/bluemonday"
)

const (
	defaultAdminPageSize = 20
	maxAdminPageSize     = 100
)

// PostAdminService is the operator-facing post editor used by the admin
// routes and the admin CLI.
type PostAdminService struct {
	postRepo repository.PostRepository
	flags    *featureflags.Manager
	policy   *bluemonday.Policy
}

// PostInput is the editable part of a post as submitted by an operator.
type PostInput struct {
	Title    string `json:"title" form:"title" yaml:"title"`
	Content  string `json:"content" form:"content" yaml:"content"`
	ImageURL string `json:"image_url" form:"image_url" yaml:"image_url"`
	Category string `json:"category" form:"category" yaml:"category"`
}

// PostPage is one page of the admin post list.
type PostPage struct {
	Posts  []*models.Post `json:"posts"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func NewPostAdminService(postRepo repository.PostRepository, flags *featureflags.Manager) *PostAdminService {
	return &PostAdminService{
		postRepo: postRepo,
		flags:    flags,
		policy:   bluemonday.UGCPolicy(),
	}
}

func (s *PostAdminService) List(ctx context.Context, limit, offset int) (*PostPage, error) {
	if limit <= 0 {
		limit = defaultAdminPageSize
	}
	if limit > maxAdminPageSize {
		limit = maxAdminPageSize
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := s.postRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *PostAdminService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostAdminService) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	post := s.build(in)
	if err := post.Validate(); err != nil {
		return nil, err
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "post created",
		slog.Uint64("post_id", uint64(post.ID)),
		slog.String("category", post.Category),
	)
	return post, nil
}

func (s *PostAdminService) Update(ctx context.Context, id uint, in PostInput) (*models.Post, error) {
	post := s.build(in)
	post.ID = id
	if err := post.Validate(); err != nil {
		return nil, err
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, id)
}

// Delete removes the post together with its comments.
func (s *PostAdminService) Delete(ctx context.Context, id uint) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	middleware.Logger.InfoContext(middleware.WithPostID(ctx, id), "post deleted")
	return nil
}

// build normalises input. Content is stored as raw markup unless the
// sanitize_post_html flag is on.
func (s *PostAdminService) build(in PostInput) *models.Post {
	content := in.Content
	if s.flags.Enabled(featureflags.SanitizePostHTML) {
		content = s.policy.Sanitize(content)
	}
	return &models.Post{
		Title:    strings.TrimSpace(in.Title),
		Content:  strings.TrimSpace(content),
		ImageURL: strings.TrimSpace(in.ImageURL),
		Category: strings.TrimSpace(in.Category),
	}
}
