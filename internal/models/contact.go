package models

// ContactMessage is a visitor's contact-form submission.
type ContactMessage struct {
	Name    string `json:"name" form:"name" validate:"required,max=100"`
	Email   string `json:"email" form:"email" validate:"required,max=120,email"`
	Message string `json:"message" form:"message" validate:"required"`
}

// Validate checks if the message meets all validation requirements.
func (m *ContactMessage) Validate() error {
	return validateStruct(m)
}
