package seed

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/middleware"
	"folio/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	Posts           int
	CommentsPerPost int
	// Seed fixes the fake-data source; zero means random.
	Seed int64
	// Clean removes all existing posts and comments first.
	Clean bool
}

// Summary counts the rows a seeding run inserted.
type Summary struct {
	Posts    int
	Comments int
}

// Run fills db with fake posts and comments in a single transaction.
// Roughly a third of the comments after the first on each post are replies
// to an earlier comment on the same post.
func Run(ctx context.Context, db *gorm.DB, opts Options) (Summary, error) {
	var sum Summary
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Clean {
			if err := Clean(tx); err != nil {
				return err
			}
		}

		f := NewFactory(tx, opts.Seed)
		for i := 0; i < opts.Posts; i++ {
			post, err := f.CreatePost()
			if err != nil {
				return fmt.Errorf("create post: %w", err)
			}
			sum.Posts++

			var thread []*models.Comment
			for j := 0; j < opts.CommentsPerPost; j++ {
				var parent *models.Comment
				if len(thread) > 0 && f.faker.Number(1, 3) == 1 {
					parent = thread[f.faker.Number(0, len(thread)-1)]
				}
				comment, err := f.CreateComment(post, parent)
				if err != nil {
					return fmt.Errorf("create comment: %w", err)
				}
				thread = append(thread, comment)
				sum.Comments++
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	middleware.Logger.InfoContext(ctx, "seed completed",
		slog.Int("posts", sum.Posts),
		slog.Int("comments", sum.Comments),
	)
	return sum, nil
}

// Clean deletes every comment and post.
func Clean(db *gorm.DB) error {
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Comment{}).Error; err != nil {
		return fmt.Errorf("clean comments: %w", err)
	}
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Post{}).Error; err != nil {
		return fmt.Errorf("clean posts: %w", err)
	}
	return nil
}
