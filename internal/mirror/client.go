// Package mirror writes best-effort copies of new comments to a remote REST table.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// CommentRecord is the row shape sent to the remote table.
type CommentRecord struct {
	PostID    uint      `json:"post_id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	ParentID  *uint     `json:"parent_id"`
}

// Client posts comment rows to {baseURL}/rest/v1/{table} with an API key.
// A Client without a base URL is disabled and every write is a no-op.
type Client struct {
	baseURL string
	apiKey  string
	table   string
	timeout time.Duration
}

// NewClient creates a mirror client. An empty baseURL disables mirroring.
func NewClient(baseURL, apiKey, table string, timeout time.Duration) *Client {
	if table == "" {
		table = "comments"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  apiKey,
		table:   table,
		timeout: timeout,
	}
}

// Enabled reports whether a remote endpoint is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Endpoint returns the table URL writes are posted to.
func (c *Client) Endpoint() string {
	return c.baseURL + "/rest/v1/" + c.table
}

// WriteComment sends one comment row. Any transport error or non-2xx answer
// is returned as a MIRROR_WRITE_FAILED AppError. The write is attempted once.
func (c *Client) WriteComment(ctx context.Context, comment *models.Comment) error {
	if !c.Enabled() {
		return nil
	}

	span, ctx := observability.NewSpan(ctx, "mirror.write_comment",
		attribute.String("mirror.table", c.table),
		attribute.Int64("post.id", int64(comment.PostID)),
	)
	defer span.End()

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			err := models.NewMirrorWriteError(context.DeadlineExceeded)
			span.SetError(err)
			return err
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	requestID := middleware.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	record := CommentRecord{
		PostID:    comment.PostID,
		Name:      comment.Name,
		Content:   comment.Content,
		Timestamp: comment.Timestamp.UTC(),
		ParentID:  comment.ParentID,
	}

	agent := fiber.Post(c.Endpoint())
	agent.Set("apikey", c.apiKey)
	agent.Set("Authorization", "Bearer "+c.apiKey)
	agent.Set("Prefer", "return=minimal")
	agent.Set(fiber.HeaderXRequestID, requestID)
	agent.JSON(record)
	agent.Timeout(timeout)

	if err := agent.Parse(); err != nil {
		wrapped := models.NewMirrorWriteError(fmt.Errorf("build request: %w", err))
		span.SetError(wrapped)
		return wrapped
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		wrapped := models.NewMirrorWriteError(errors.Join(errs...))
		span.SetError(wrapped)
		return wrapped
	}

	span.AddAttributes(attribute.Int("http.status_code", code))
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		wrapped := models.NewMirrorWriteError(fmt.Errorf("mirror returned status %d: %s", code, truncate(string(body), 200)))
		span.SetError(wrapped)
		return wrapped
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
