// Package service holds the blog's read paths and write workflows.
package service

import (
	"context"
	"strings"
	"time"

	"folio/internal/models"
	"folio/internal/repository"
)

// DefaultRecentLimit is how many posts the unfiltered blog listing shows.
const DefaultRecentLimit = 9

type ContentService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	recentLimit int
}

// BlogListing is the blog page: a filtered or recent post list plus navigation.
type BlogListing struct {
	Header     string         `json:"header"`
	Category   string         `json:"category,omitempty"`
	Posts      []*models.Post `json:"posts"`
	Categories []string       `json:"categories"`
}

// PostView is everything the single-post page shows.
type PostView struct {
	Post            *models.Post      `json:"post"`
	RelatedPosts    []*models.Post    `json:"all_posts"`
	CurrentCategory string            `json:"current_category"`
	Categories      []string          `json:"categories"`
	Comments        []*models.Comment `json:"comments"`
	CommentTree     []*CommentNode    `json:"comment_tree"`
}

func NewContentService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	recentLimit int,
) *ContentService {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &ContentService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		recentLimit: recentLimit,
	}
}

// GetPost returns the post or a NOT_FOUND AppError.
func (s *ContentService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// PostsByCategory returns posts whose category matches exactly. No match is an empty list.
func (s *ContentService) PostsByCategory(ctx context.Context, category string) ([]*models.Post, error) {
	return s.postRepo.ListByCategory(ctx, category)
}

// RecentPosts returns the newest posts. A non-positive limit uses the configured default.
func (s *ContentService) RecentPosts(ctx context.Context, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	return s.postRepo.ListRecent(ctx, limit)
}

func (s *ContentService) Categories(ctx context.Context) ([]string, error) {
	return s.postRepo.Categories(ctx)
}

// Search matches query against title and content, ignoring case.
// An empty query returns an empty list rather than every post.
func (s *ContentService) Search(ctx context.Context, query string) ([]*models.Post, error) {
	if query == "" {
		return []*models.Post{}, nil
	}
	return s.postRepo.Search(ctx, query)
}

// CommentsForPost lists a post's comments and replies together, newest first.
func (s *ContentService) CommentsForPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

// BlogListing builds the blog page. An empty category shows the most recent posts.
func (s *ContentService) BlogListing(ctx context.Context, category string) (*BlogListing, error) {
	var (
		posts  []*models.Post
		header string
		err    error
	)
	if category != "" {
		posts, err = s.PostsByCategory(ctx, category)
		header = category + " Blogs"
	} else {
		posts, err = s.RecentPosts(ctx, 0)
		header = "Recent Blogs"
	}
	if err != nil {
		return nil, err
	}

	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	return &BlogListing{
		Header:     header,
		Category:   category,
		Posts:      posts,
		Categories: categories,
	}, nil
}

// PostView loads a post with its category siblings, the navigation
// categories, and its comments both flat and as a reply tree.
func (s *ContentService) PostView(ctx context.Context, id uint) (*PostView, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	related, err := s.PostsByCategory(ctx, post.Category)
	if err != nil {
		return nil, err
	}
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	comments, err := s.CommentsForPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	return &PostView{
		Post:            post,
		RelatedPosts:    related,
		CurrentCategory: post.Category,
		Categories:      categories,
		Comments:        comments,
		CommentTree:     BuildCommentTree(comments),
	}, nil
}

// CategoryFromSlug turns a URL slug such as "UG-Escapades" into the stored
// category name "UG Escapades".
func CategoryFromSlug(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}

// CopyrightYear is the year shown in page footers.
func CopyrightYear(now time.Time) int {
	return now.Year()
}
