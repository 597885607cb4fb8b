package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts returns a page of published posts, newest first.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return nil
	}

	posts, err := s.postService.ListPublished(c.UserContext(), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  limit,
		"offset": offset,
	})
}

// GetPostBySlug returns a published post by its URL slug.
func (s *Server) GetPostBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing slug"))
	}

	post, err := s.postService.GetBySlug(c.UserContext(), slug)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetPost returns a single post by ID. Unpublished posts are hidden
// from the public endpoint; admins read them via /api/admin/posts.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	if post.Status != models.StatusPublished {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", id))
	}
	return c.JSON(post)
}

// AdminGetPosts returns a page of posts in any status.
func (s *Server) AdminGetPosts(c *fiber.Ctx) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return nil
	}

	posts, err := s.postService.ListAll(c.UserContext(), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  limit,
		"offset": offset,
	})
}

type createPostRequest struct {
	Title           string   `json:"title"`
	MetaDescription string   `json:"metaDescription"`
	Tags            []string `json:"tags"`
	ContentHTML     string   `json:"contentHtml"`
	Status          string   `json:"status"`
}

// AdminCreatePost creates a post manually, bypassing the AI pipeline.
func (s *Server) AdminCreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	authorID := currentUserID(c)
	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Title:           req.Title,
		MetaDescription: req.MetaDescription,
		Tags:            req.Tags,
		ContentHTML:     req.ContentHTML,
		Status:          models.PostStatus(req.Status),
		AuthorID:        &authorID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// AdminDeletePost removes a post.
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
