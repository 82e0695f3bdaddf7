package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostValidation(t *testing.T) {
	valid := func() *Post {
		return &Post{Title: "Hi", Content: "hello world", Category: "Projects"}
	}

	tests := []struct {
		name    string
		mutate  func(p *Post)
		wantMsg string
	}{
		{"valid post", func(_ *Post) {}, ""},
		{"missing title", func(p *Post) { p.Title = "" }, "title is required"},
		{"title too long", func(p *Post) { p.Title = strings.Repeat("a", 101) }, "title must be at most 100 characters"},
		{"title of 100 multibyte runes", func(p *Post) { p.Title = strings.Repeat("ğ", 100) }, ""},
		{"missing content", func(p *Post) { p.Content = "" }, "content is required"},
		{"image url too long", func(p *Post) { p.ImageURL = strings.Repeat("u", 201) }, "image_url must be at most 200 characters"},
		{"missing category", func(p *Post) { p.Category = "" }, "category is required"},
		{"category too long", func(p *Post) { p.Category = strings.Repeat("c", 51) }, "category must be at most 50 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, HasCode(err, CodeValidation))
			var appErr *AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestCommentValidation(t *testing.T) {
	zero := uint(0)
	parent := uint(3)

	tests := []struct {
		name    string
		comment *Comment
		wantErr bool
	}{
		{"valid comment", &Comment{PostID: 1, Name: "Ada", Content: "Nice!", Timestamp: time.Now()}, false},
		{"valid reply with email", &Comment{PostID: 1, ParentID: &parent, Name: "Ada", Email: "ada@example.com", Content: "Nice!", Timestamp: time.Now()}, false},
		{"missing post", &Comment{Name: "Ada", Content: "Nice!", Timestamp: time.Now()}, true},
		{"empty name", &Comment{PostID: 1, Content: "Nice!", Timestamp: time.Now()}, true},
		{"empty content", &Comment{PostID: 1, Name: "Ada", Timestamp: time.Now()}, true},
		{"bad email", &Comment{PostID: 1, Name: "Ada", Email: "not-an-email", Content: "Nice!", Timestamp: time.Now()}, true},
		{"zero timestamp", &Comment{PostID: 1, Name: "Ada", Content: "Nice!"}, true},
		{"zero parent", &Comment{PostID: 1, ParentID: &zero, Name: "Ada", Content: "Nice!", Timestamp: time.Now()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.comment.Validate()
			if tt.wantErr {
				assert.True(t, HasCode(err, CodeValidation), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommentIsReply(t *testing.T) {
	parent := uint(1)
	assert.False(t, (&Comment{}).IsReply())
	assert.True(t, (&Comment{ParentID: &parent}).IsReply())
}

func TestContactMessageValidation(t *testing.T) {
	assert.NoError(t, (&ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "Hello"}).Validate())
	assert.Error(t, (&ContactMessage{Email: "ada@example.com", Message: "Hello"}).Validate())
	assert.Error(t, (&ContactMessage{Name: "Ada", Email: "nope", Message: "Hello"}).Validate())
	assert.Error(t, (&ContactMessage{Name: "Ada", Email: "ada@example.com"}).Validate())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, StatusFor(NewNotFoundError("Post", 1)))
	assert.Equal(t, fiber.StatusBadRequest, StatusFor(NewValidationError("bad")))
	assert.Equal(t, fiber.StatusBadGateway, StatusFor(NewSendFailedError(errors.New("dial"))))
	assert.Equal(t, fiber.StatusInternalServerError, StatusFor(NewInternalError(errors.New("db"))))
	assert.Equal(t, fiber.StatusInternalServerError, StatusFor(errors.New("plain")))

	wrapped := fmt.Errorf("lookup: %w", NewNotFoundError("Post", 2))
	assert.Equal(t, fiber.StatusNotFound, StatusFor(wrapped))
	assert.True(t, HasCode(wrapped, CodeNotFound))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewMirrorWriteError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Remote mirror write failed: connection reset", err.Error())
}

func TestRespondWithError(t *testing.T) {
	app := fiber.New()
	app.Get("/validation", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusBadRequest, NewValidationError("name is required"))
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, NewInternalError(errors.New("secret dsn")))
	})
	app.Get("/send", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusBadGateway, NewSendFailedError(errors.New("auth failed")))
	})

	decode := func(path string) (int, ErrorResponse) {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		var body ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return resp.StatusCode, body
	}

	status, body := decode("/validation")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, ErrorResponse{Error: "name is required", Code: CodeValidation}, body)

	status, body = decode("/internal")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, CodeInternal, body.Code)
	assert.Empty(t, body.Details)

	status, body = decode("/send")
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Equal(t, "auth failed", body.Details)
}
