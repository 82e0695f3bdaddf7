package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"folio/internal/featureflags"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/observability"
	"folio/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// CommentMirror receives a best-effort copy of each stored comment.
type CommentMirror interface {
	WriteComment(ctx context.Context, comment *models.Comment) error
}

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	mirror      CommentMirror
	flags       *featureflags.Manager
	now         func() time.Time
}

// SubmitCommentInput is a comment form as received. ParentID is the raw
// parent_id value; empty means a top-level comment.
type SubmitCommentInput struct {
	PostID   uint
	ParentID string
	Name     string
	Email    string
	Content  string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	mirror CommentMirror,
	flags *featureflags.Manager,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		mirror:      mirror,
		flags:       flags,
		now:         time.Now,
	}
}

// Submit stores a new comment or reply and then forwards it to the mirror.
//
// The post is checked first so a submission for a missing post is NOT_FOUND
// regardless of its fields. The local insert is the only write that can fail
// the call; a mirror failure is logged and counted.
func (s *CommentService) Submit(ctx context.Context, in SubmitCommentInput) (*models.Comment, error) {
	ctx = middleware.WithPostID(ctx, in.PostID)
	span, ctx := observability.NewSpan(ctx, "comment.submit",
		attribute.Int64("post.id", int64(in.PostID)),
	)
	defer span.End()

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		span.SetError(err)
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	content := strings.TrimSpace(in.Content)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if content == "" {
		return nil, models.NewValidationError("Comment is required")
	}

	parentID, err := parseParentID(in.ParentID)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		if err := s.checkParent(ctx, in.PostID, *parentID); err != nil {
			return nil, err
		}
	}

	comment := &models.Comment{
		PostID:    in.PostID,
		ParentID:  parentID,
		Name:      name,
		Email:     strings.TrimSpace(in.Email),
		Content:   content,
		Timestamp: s.now().UTC(),
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		span.SetError(err)
		return nil, err
	}

	kind := "comment"
	if comment.IsReply() {
		kind = "reply"
	}
	observability.CommentsSubmitted.WithLabelValues(kind).Inc()
	span.AddAttributes(attribute.Int64("comment.id", int64(comment.ID)))

	s.replicate(ctx, comment)

	return comment, nil
}

// parseParentID reads an optional parent comment id. Anything other than
// blank or a positive integer is a validation error.
func parseParentID(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return nil, models.NewValidationError("Invalid parent comment ID")
	}
	id := uint(v)
	return &id, nil
}

// checkParent rejects replies to comments that do not exist or belong to another post.
func (s *CommentService) checkParent(ctx context.Context, postID, parentID uint) error {
	parent, err := s.commentRepo.GetByID(ctx, parentID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return models.NewValidationError("Parent comment does not exist")
		}
		return err
	}
	if parent.PostID != postID {
		return models.NewValidationError("Parent comment belongs to a different post")
	}
	return nil
}

// replicate makes the single mirror attempt. It runs detached from request
// cancellation so a client disconnect after the insert does not skip it.
func (s *CommentService) replicate(ctx context.Context, comment *models.Comment) {
	if s.mirror == nil || !s.flags.Enabled(featureflags.CommentMirror) {
		return
	}

	if err := s.mirror.WriteComment(context.WithoutCancel(ctx), comment); err != nil {
		observability.MirrorWriteFailures.WithLabelValues("comment").Inc()
		middleware.Logger.WarnContext(ctx, "mirror write failed",
			slog.Uint64("comment_id", uint64(comment.ID)),
			slog.String("error", err.Error()),
		)
	}
}
