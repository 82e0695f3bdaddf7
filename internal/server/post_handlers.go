package server

import (
	"strconv"

	"folio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ShowPost renders a post with its category siblings, navigation and comments.
// A missing or malformed id answers with a plain-text 404.
func (s *Server) ShowPost(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusNotFound).SendString("Post not found")
	}

	view, err := s.contentService.PostView(c.UserContext(), uint(id))
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Post not found")
		}
		return respondError(c, err)
	}

	return s.render(c, "post.html", fiber.Map{
		"post":             view.Post,
		"all_posts":        view.RelatedPosts,
		"current_category": view.CurrentCategory,
		"categories":       view.Categories,
		"comments":         view.Comments,
		"comment_tree":     view.CommentTree,
	})
}

// Search renders posts whose title or content contains q, ignoring case.
func (s *Server) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	results, err := s.contentService.Search(c.UserContext(), query)
	if err != nil {
		return respondError(c, err)
	}
	return s.render(c, "search.html", fiber.Map{
		"query":   query,
		"results": results,
	})
}
