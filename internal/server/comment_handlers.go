package server

import (
	"strconv"
	"strings"

	"folio/internal/models"
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// commentForm holds both the top-level comment fields and the reply fields
// the post page posts back.
type commentForm struct {
	Name         string `form:"name"`
	Email        string `form:"email"`
	Comment      string `form:"comment"`
	ReplyName    string `form:"reply_name"`
	ReplyContent string `form:"reply_content"`
	ParentID     string `form:"parent_id"`
}

// SubmitComment stores a comment or reply and redirects back to the post.
func (s *Server) SubmitComment(c *fiber.Ctx) error {
	postID, err := strconv.ParseUint(c.Params("postId"), 10, 32)
	if err != nil || postID == 0 {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", c.Params("postId")))
	}

	var form commentForm
	if parseErr := c.BodyParser(&form); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	name, content := form.Name, form.Comment
	if strings.TrimSpace(form.ParentID) != "" {
		// Reply forms use their own field names; fall back to the top-level ones.
		if strings.TrimSpace(form.ReplyName) != "" {
			name = form.ReplyName
		}
		if strings.TrimSpace(form.ReplyContent) != "" {
			content = form.ReplyContent
		}
	}

	_, err = s.commentService.Submit(c.UserContext(), service.SubmitCommentInput{
		PostID:   uint(postID),
		ParentID: form.ParentID,
		Name:     name,
		Email:    form.Email,
		Content:  content,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Redirect("/post/"+strconv.FormatUint(postID, 10), fiber.StatusFound)
}
