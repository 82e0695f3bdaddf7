package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"folio/internal/models"
	"folio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFixtures = `
posts:
  - title: Into the caves
    content: It was dark.
    category: UG Escapades
    image_url: https://example.com/cave.jpg
    comments:
      - name: Ada
        email: ada@example.com
        content: Lovely
        timestamp: 2024-03-01T10:00:00Z
        replies:
          - name: Bob
            content: Agreed
            timestamp: 2024-02-01T10:00:00Z
      - name: Eve
        content: Scary
  - title: Robot arm
    content: Servo notes.
    category: Projects
`

func TestRun(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	sum, err := Run(context.Background(), db, Options{Posts: 4, CommentsPerPost: 5, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, Summary{Posts: 4, Comments: 20}, sum)

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	require.Len(t, posts, 4)
	for _, p := range posts {
		assert.Contains(t, DefaultCategories, p.Category)
		assert.NoError(t, p.Validate())
	}

	var comments []models.Comment
	require.NoError(t, db.Find(&comments).Error)
	require.Len(t, comments, 20)
	byID := make(map[uint]models.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}
	for _, c := range comments {
		if c.ParentID == nil {
			continue
		}
		parent, ok := byID[*c.ParentID]
		require.True(t, ok)
		assert.Equal(t, parent.PostID, c.PostID)
		assert.False(t, c.Timestamp.Before(parent.Timestamp))
	}
}

func TestRun_Clean(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	post := testutil.CreatePost(t, db, "Old", "old", "Projects")
	testutil.CreateComment(t, db, post.ID, nil, "Ada", "old", time.Now())

	_, err := Run(context.Background(), db, Options{Posts: 2, CommentsPerPost: 1, Clean: true})
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&models.Post{}).Where("title = ?", "Old").Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&models.Comment{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestParseFixtures(t *testing.T) {
	fx, err := ParseFixtures([]byte(sampleFixtures))
	require.NoError(t, err)
	require.Len(t, fx.Posts, 2)
	assert.Equal(t, "UG Escapades", fx.Posts[0].Category)
	assert.Equal(t, "https://example.com/cave.jpg", fx.Posts[0].ImageURL)
	require.Len(t, fx.Posts[0].Comments, 2)
	require.Len(t, fx.Posts[0].Comments[0].Replies, 1)

	empty, err := ParseFixtures(nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Posts)

	_, err = ParseFixtures([]byte("posts:\n  - title: x\n    author: nobody\n"))
	assert.Error(t, err)
}

func TestFixtures_Apply(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	path := filepath.Join(t.TempDir(), "fixtures.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFixtures), 0o600))

	fx, err := LoadFixtures(path)
	require.NoError(t, err)

	sum, err := fx.Apply(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, Summary{Posts: 2, Comments: 3}, sum)

	var ada, bob models.Comment
	require.NoError(t, db.Where("name = ?", "Ada").First(&ada).Error)
	require.NoError(t, db.Where("name = ?", "Bob").First(&bob).Error)
	require.NotNil(t, bob.ParentID)
	assert.Equal(t, ada.ID, *bob.ParentID)
	// Replies are never older than their parent.
	assert.True(t, bob.Timestamp.Equal(ada.Timestamp))
}

func TestFixtures_ApplyInvalidRollsBack(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	fx, err := ParseFixtures([]byte(`
posts:
  - title: Good
    content: fine
    category: Projects
  - title: Bad
    content: no category
`))
	require.NoError(t, err)

	_, err = fx.Apply(context.Background(), db)
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeValidation))

	var n int64
	require.NoError(t, db.Model(&models.Post{}).Count(&n).Error)
	assert.Zero(t, n)
}
