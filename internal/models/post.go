// Package models contains data structures for the blog's domain models.
package models

// Post represents a blog article. Category is a free-text grouping key;
// there is no separate category entity.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:100;not null" json:"title" validate:"required,max=100"`
	Content  string `gorm:"type:text;not null" json:"content" validate:"required"`
	ImageURL string `gorm:"size:200" json:"image_url" validate:"omitempty,max=200"`
	Category string `gorm:"size:50;not null;index" json:"category" validate:"required,max=50"`
}

// TableName keeps the singular table name used by the existing blog.db.
func (Post) TableName() string {
	return "post"
}

// Validate checks if the post meets all validation requirements.
func (p *Post) Validate() error {
	return validateStruct(p)
}
