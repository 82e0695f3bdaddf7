package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"folio/internal/models"
	"folio/internal/service"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixtures is hand-written content loaded from YAML:
//
//	posts:
//	  - title: First trip
//	    content: ...
//	    category: UG Escapades
//	    comments:
//	      - name: Ada
//	        content: Lovely
//	        replies:
//	          - name: Bob
//	            content: Agreed
type Fixtures struct {
	Posts []PostFixture `yaml:"posts"`
}

type PostFixture struct {
	service.PostInput `yaml:",inline"`
	Comments          []CommentFixture `yaml:"comments"`
}

type CommentFixture struct {
	Name      string           `yaml:"name"`
	Email     string           `yaml:"email"`
	Content   string           `yaml:"content"`
	Timestamp *time.Time       `yaml:"timestamp"`
	Replies   []CommentFixture `yaml:"replies"`
}

// LoadFixtures reads and parses a fixtures file.
func LoadFixtures(path string) (*Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(raw)
}

// ParseFixtures decodes fixtures YAML. Unknown keys are rejected and an
// empty document yields no fixtures.
func ParseFixtures(raw []byte) (*Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &fx, nil
}

// Apply inserts the fixtures in one transaction. Comments without a
// timestamp are stamped with the current time; a reply is never stamped
// earlier than its parent.
func (fx *Fixtures) Apply(ctx context.Context, db *gorm.DB) (Summary, error) {
	var sum Summary
	now := time.Now().UTC()

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, pf := range fx.Posts {
			post := &models.Post{
				Title:    strings.TrimSpace(pf.Title),
				Content:  strings.TrimSpace(pf.Content),
				ImageURL: strings.TrimSpace(pf.ImageURL),
				Category: strings.TrimSpace(pf.Category),
			}
			if err := post.Validate(); err != nil {
				return fmt.Errorf("posts[%d]: %w", i, err)
			}
			if err := tx.Create(post).Error; err != nil {
				return err
			}
			sum.Posts++

			n, err := applyComments(tx, post, nil, pf.Comments, now)
			if err != nil {
				return fmt.Errorf("posts[%d]: %w", i, err)
			}
			sum.Comments += n
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}

func applyComments(tx *gorm.DB, post *models.Post, parent *models.Comment, fixtures []CommentFixture, now time.Time) (int, error) {
	count := 0
	for i, cf := range fixtures {
		ts := now
		if cf.Timestamp != nil {
			ts = cf.Timestamp.UTC()
		}
		if parent != nil && ts.Before(parent.Timestamp) {
			ts = parent.Timestamp
		}

		comment := &models.Comment{
			PostID:    post.ID,
			Name:      strings.TrimSpace(cf.Name),
			Email:     strings.TrimSpace(cf.Email),
			Content:   strings.TrimSpace(cf.Content),
			Timestamp: ts,
		}
		if parent != nil {
			comment.ParentID = &parent.ID
		}
		if err := comment.Validate(); err != nil {
			return count, fmt.Errorf("comments[%d]: %w", i, err)
		}
		if err := tx.Create(comment).Error; err != nil {
			return count, err
		}
		count++

		n, err := applyComments(tx, post, comment, cf.Replies, now)
		count += n
		if err != nil {
			return count, fmt.Errorf("comments[%d].%w", i, err)
		}
	}
	return count, nil
}
