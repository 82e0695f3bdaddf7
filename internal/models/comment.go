package models

import "time"

// Comment is a reader note attached to a Post. A non-nil ParentID marks it
// as a reply to another comment on the same post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id" validate:"required"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Name      string    `gorm:"size:100;not null" json:"name" validate:"required,max=100"`
	Email     string    `gorm:"size:120" json:"email,omitempty" validate:"omitempty,max=120,email"`
	Content   string    `gorm:"type:text;not null" json:"content" validate:"required"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

// TableName keeps the singular table name used by the existing blog.db.
func (Comment) TableName() string {
	return "comment"
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// Validate checks if the comment meets all validation requirements.
func (c *Comment) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if c.Timestamp.IsZero() {
		return NewValidationError("timestamp cannot be zero")
	}
	if c.ParentID != nil && *c.ParentID == 0 {
		return NewValidationError("parent_id must reference a comment")
	}
	return nil
}
