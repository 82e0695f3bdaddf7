package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"folio/internal/featureflags"
	"folio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

func newCommentService(comments *commentRepoStub, posts *postRepoStub, mirror CommentMirror, flags string) *CommentService {
	svc := NewCommentService(comments, posts, mirror, featureflags.NewManager(flags))
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestCommentService_Submit_PostNotFound(t *testing.T) {
	t.Parallel()

	created := 0
	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, _ *models.Comment) error {
		created++
		return nil
	}
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	mirror := &mirrorStub{}

	svc := newCommentService(comments, posts, mirror, "")

	// Missing post wins over missing fields.
	_, err := svc.Submit(context.Background(), SubmitCommentInput{PostID: 99})
	assertNotFoundError(t, err)

	_, err = svc.Submit(context.Background(), SubmitCommentInput{PostID: 99, Name: "Ada", Content: "Nice!"})
	assertNotFoundError(t, err)

	assert.Zero(t, created)
	assert.Empty(t, mirror.calls)
}

func TestCommentService_Submit_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input SubmitCommentInput
	}{
		{"empty name", SubmitCommentInput{PostID: 1, Content: "Nice!"}},
		{"whitespace name", SubmitCommentInput{PostID: 1, Name: "   ", Content: "Nice!"}},
		{"empty content", SubmitCommentInput{PostID: 1, Name: "Ada"}},
		{"whitespace content", SubmitCommentInput{PostID: 1, Name: "Ada", Content: "\n\t "}},
		{"name too long", SubmitCommentInput{PostID: 1, Name: strings.Repeat("n", 101), Content: "Nice!"}},
		{"bad email", SubmitCommentInput{PostID: 1, Name: "Ada", Email: "ada-at-example", Content: "Nice!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			created := 0
			comments := noopCommentRepo()
			comments.createFn = func(_ context.Context, _ *models.Comment) error {
				created++
				return nil
			}
			svc := newCommentService(comments, noopPostRepo(), &mirrorStub{}, "")

			_, err := svc.Submit(context.Background(), tt.input)
			assertValidationError(t, err)
			assert.Zero(t, created)
		})
	}
}

func TestCommentService_Submit_Success(t *testing.T) {
	t.Parallel()

	var stored *models.Comment
	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 42
		stored = c
		return nil
	}
	mirror := &mirrorStub{}
	svc := newCommentService(comments, noopPostRepo(), mirror, "")

	before := fixedNow
	comment, err := svc.Submit(context.Background(), SubmitCommentInput{
		PostID:  1,
		Name:    "  Ada ",
		Email:   "ada@example.com",
		Content: " Nice! ",
	})
	require.NoError(t, err)
	require.Same(t, stored, comment)

	assert.Equal(t, uint(42), comment.ID)
	assert.Equal(t, uint(1), comment.PostID)
	assert.Nil(t, comment.ParentID)
	assert.Equal(t, "Ada", comment.Name)
	assert.Equal(t, "Nice!", comment.Content)
	assert.Equal(t, "ada@example.com", comment.Email)
	assert.Equal(t, time.UTC, comment.Timestamp.Location())
	assert.False(t, comment.Timestamp.Before(before))

	require.Len(t, mirror.calls, 1)
	assert.Same(t, comment, mirror.calls[0])
}

func TestCommentService_Submit_Reply(t *testing.T) {
	t.Parallel()

	parentID := uint(7)
	comments := noopCommentRepo()
	comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		switch id {
		case 7:
			return &models.Comment{ID: 7, PostID: 1}, nil
		case 8:
			return &models.Comment{ID: 8, PostID: 2}, nil
		}
		return nil, models.NewNotFoundError("Comment", id)
	}
	svc := newCommentService(comments, noopPostRepo(), &mirrorStub{}, "")
	ctx := context.Background()

	t.Run("same post", func(t *testing.T) {
		comment, err := svc.Submit(ctx, SubmitCommentInput{PostID: 1, ParentID: " 7 ", Name: "Bob", Content: "Agreed"})
		require.NoError(t, err)
		require.NotNil(t, comment.ParentID)
		assert.Equal(t, parentID, *comment.ParentID)
	})

	t.Run("parent on another post", func(t *testing.T) {
		_, err := svc.Submit(ctx, SubmitCommentInput{PostID: 1, ParentID: "8", Name: "Bob", Content: "Agreed"})
		assertValidationError(t, err)
	})

	t.Run("missing parent", func(t *testing.T) {
		_, err := svc.Submit(ctx, SubmitCommentInput{PostID: 1, ParentID: "500", Name: "Bob", Content: "Agreed"})
		assertValidationError(t, err)
	})

	for _, raw := range []string{"abc", "0", "-3"} {
		t.Run("malformed parent "+raw, func(t *testing.T) {
			_, err := svc.Submit(ctx, SubmitCommentInput{PostID: 1, ParentID: raw, Name: "Bob", Content: "Agreed"})
			assertValidationError(t, err)
		})
	}
}

func TestCommentService_Submit_MirrorFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	created := 0
	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, c *models.Comment) error {
		created++
		c.ID = 1
		return nil
	}
	mirror := &mirrorStub{err: models.NewMirrorWriteError(errors.New("503 from mirror"))}
	svc := newCommentService(comments, noopPostRepo(), mirror, "")

	comment, err := svc.Submit(context.Background(), SubmitCommentInput{PostID: 1, Name: "Ada", Content: "Nice!"})
	require.NoError(t, err)
	assert.NotNil(t, comment)
	assert.Equal(t, 1, created)
	assert.Len(t, mirror.calls, 1)
}

func TestCommentService_Submit_MirrorIgnoresRequestCancellation(t *testing.T) {
	t.Parallel()

	mirror := &mirrorStub{}
	svc := newCommentService(noopCommentRepo(), noopPostRepo(), mirror, "")

	ctx, cancel := context.WithCancel(context.Background())
	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, _ *models.Comment) error {
		cancel()
		return nil
	}
	svc.commentRepo = comments

	_, err := svc.Submit(ctx, SubmitCommentInput{PostID: 1, Name: "Ada", Content: "Nice!"})
	require.NoError(t, err)
	require.Len(t, mirror.ctxs, 1)
	assert.NoError(t, mirror.ctxs[0].Err())
}

func TestCommentService_Submit_StoreFailureSkipsMirror(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("database is locked")
	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, _ *models.Comment) error { return dbErr }
	mirror := &mirrorStub{}
	svc := newCommentService(comments, noopPostRepo(), mirror, "")

	_, err := svc.Submit(context.Background(), SubmitCommentInput{PostID: 1, Name: "Ada", Content: "Nice!"})
	assert.ErrorIs(t, err, dbErr)
	assert.Empty(t, mirror.calls)
}

func TestCommentService_Submit_MirrorFlagOff(t *testing.T) {
	t.Parallel()

	mirror := &mirrorStub{}
	svc := newCommentService(noopCommentRepo(), noopPostRepo(), mirror, "comment_mirror=off")

	_, err := svc.Submit(context.Background(), SubmitCommentInput{PostID: 1, Name: "Ada", Content: "Nice!"})
	require.NoError(t, err)
	assert.Empty(t, mirror.calls)

	nilMirror := newCommentService(noopCommentRepo(), noopPostRepo(), nil, "")
	_, err = nilMirror.Submit(context.Background(), SubmitCommentInput{PostID: 1, Name: "Ada", Content: "Nice!"})
	require.NoError(t, err)
}
