// Package seed creates demo content for development databases and tests.
package seed

import (
	"fmt"
	"time"

	"folio/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultCategories are the sections the blog navigation is built around.
var DefaultCategories = []string{
	"Projects",
	"UG Escapades",
	"Türkiye Geçilmez",
	"Audacious Men Series",
}

// Factory builds blog entities with fake content and persists them.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewFactory creates a Factory bound to db. A zero seed draws from a
// random source; any other seed makes the generated content repeatable.
func NewFactory(db *gorm.DB, seed int64) *Factory {
	return &Factory{db: db, faker: gofakeit.New(seed), now: time.Now}
}

// BuildPost constructs a post in one of DefaultCategories without saving it.
func (f *Factory) BuildPost(overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Title:    truncate(f.faker.Sentence(5), 100),
		Content:  f.faker.Paragraph(3, 4, 12, "\n\n"),
		ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/800/600", f.faker.UUID()),
		Category: f.faker.RandomString(DefaultCategories),
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// BuildComment constructs a comment on post, replying to parent when it is
// non-nil. Timestamps fall within the last 30 days, never before parent's.
func (f *Factory) BuildComment(post *models.Post, parent *models.Comment, overrides ...func(*models.Comment)) *models.Comment {
	now := f.now().UTC()
	from := now.Add(-30 * 24 * time.Hour)
	if parent != nil {
		from = parent.Timestamp
	}

	comment := &models.Comment{
		PostID:    post.ID,
		Name:      truncate(f.faker.Name(), 100),
		Content:   f.faker.Sentence(f.faker.Number(4, 20)),
		Timestamp: f.faker.DateRange(from, now).UTC(),
	}
	if f.faker.Bool() {
		comment.Email = f.faker.Email()
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	for _, override := range overrides {
		override(comment)
	}
	return comment
}

// CreatePost builds, validates and saves a post.
func (f *Factory) CreatePost(overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(overrides...)
	if err := post.Validate(); err != nil {
		return nil, err
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment builds, validates and saves a comment.
func (f *Factory) CreateComment(post *models.Post, parent *models.Comment, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := f.BuildComment(post, parent, overrides...)
	if err := comment.Validate(); err != nil {
		return nil, err
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
