package service

import (
	"context"
	"errors"
	"testing"

	"folio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint) (*models.Post, error)
	listByCategoryFn func(context.Context, string) ([]*models.Post, error)
	listRecentFn     func(context.Context, int) ([]*models.Post, error)
	listFn           func(context.Context, int, int) ([]*models.Post, error)
	countFn          func(context.Context) (int64, error)
	categoriesFn     func(context.Context) ([]string, error)
	searchFn         func(context.Context, string) ([]*models.Post, error)
	updateFn         func(context.Context, *models.Post) error
	deleteFn         func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListByCategory(ctx context.Context, category string) ([]*models.Post, error) {
	return s.listByCategoryFn(ctx, category)
}
func (s *postRepoStub) ListRecent(ctx context.Context, limit int) ([]*models.Post, error) {
	return s.listRecentFn(ctx, limit)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *postRepoStub) Categories(ctx context.Context) ([]string, error) {
	return s.categoriesFn(ctx)
}
func (s *postRepoStub) Search(ctx context.Context, query string) ([]*models.Post, error) {
	return s.searchFn(ctx, query)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, Title: "Hi", Content: "hello world", Category: "Projects"}, nil
		},
		listByCategoryFn: func(_ context.Context, _ string) ([]*models.Post, error) { return []*models.Post{}, nil },
		listRecentFn:     func(_ context.Context, _ int) ([]*models.Post, error) { return []*models.Post{}, nil },
		listFn:           func(_ context.Context, _, _ int) ([]*models.Post, error) { return []*models.Post{}, nil },
		countFn:          func(_ context.Context) (int64, error) { return 0, nil },
		categoriesFn:     func(_ context.Context) ([]string, error) { return []string{}, nil },
		searchFn:         func(_ context.Context, _ string) ([]*models.Post, error) { return []*models.Post{}, nil },
		updateFn:         func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return nil, models.NewNotFoundError("Comment", id)
		},
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return []*models.Comment{}, nil },
	}
}

// mirrorStub records mirror writes.
type mirrorStub struct {
	calls []*models.Comment
	ctxs  []context.Context
	err   error
}

func (m *mirrorStub) WriteComment(ctx context.Context, comment *models.Comment) error {
	m.calls = append(m.calls, comment)
	m.ctxs = append(m.ctxs, ctx)
	return m.err
}

// senderStub records contact messages.
type senderStub struct {
	sent []*models.ContactMessage
	err  error
}

func (s *senderStub) Send(_ context.Context, msg *models.ContactMessage) error {
	s.sent = append(s.sent, msg)
	return s.err
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
