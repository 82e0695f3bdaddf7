package server

import (
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CategoryRoute is a fixed route that lists one exact category.
type CategoryRoute struct {
	Path     string
	View     string
	Category string
}

var categoryPages = []CategoryRoute{
	{Path: "/Projects", View: "projects.html", Category: "Projects"},
	{Path: "/UG-Escapades", View: "ugescapades.html", Category: "UG Escapades"},
	{Path: "/Türkiye-Geçilmez", View: "turkiyegecilmez.html", Category: "Türkiye Geçilmez"},
	{Path: "/Audacious-Men-Series", View: "audacity.html", Category: "Audacious Men Series"},
}

// Home renders the landing page.
func (s *Server) Home(c *fiber.Ctx) error {
	return s.render(c, "index.html", nil)
}

// About renders the static about page.
func (s *Server) About(c *fiber.Ctx) error {
	return s.render(c, "about.html", nil)
}

// CVResume renders the static résumé page.
func (s *Server) CVResume(c *fiber.Ctx) error {
	return s.render(c, "cvresume.html", nil)
}

// Blog lists recent posts, or the posts of the category in the path.
func (s *Server) Blog(c *fiber.Ctx) error {
	listing, err := s.contentService.BlogListing(c.UserContext(), c.Params("category"))
	if err != nil {
		return respondError(c, err)
	}
	return s.render(c, "blog.html", fiber.Map{
		"header":     listing.Header,
		"posts":      listing.Posts,
		"categories": listing.Categories,
	})
}

// CategoryPage returns a handler listing the fixed category of page.
func (s *Server) CategoryPage(page CategoryRoute) fiber.Handler {
	return func(c *fiber.Ctx) error {
		posts, err := s.contentService.PostsByCategory(c.UserContext(), page.Category)
		if err != nil {
			return respondError(c, err)
		}
		return s.render(c, page.View, fiber.Map{
			"posts":    posts,
			"category": page.Category,
		})
	}
}

// ShowCategory lists the category named by the slug, hyphens read as spaces.
func (s *Server) ShowCategory(c *fiber.Ctx) error {
	category := service.CategoryFromSlug(c.Params("category"))
	posts, err := s.contentService.PostsByCategory(c.UserContext(), category)
	if err != nil {
		return respondError(c, err)
	}
	return s.render(c, "category.html", fiber.Map{
		"posts":    posts,
		"category": category,
	})
}
