package server

import (
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parentId"`
}

// GetComments returns the approved comment thread for a post,
// top-level comments first with replies nested under them.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"comments": threadComments(comments)})
}

// CreateComment adds a comment or reply to a post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:   currentUserID(c),
		PostID:   postID,
		Content:  strings.TrimSpace(req.Content),
		ParentID: req.ParentID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment edits a comment's content. Owner or admin only.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	if _, err := parseID(c, "id"); err != nil {
		return nil
	}
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
		Content:   strings.TrimSpace(req.Content),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment removes a comment and its direct replies. Owner or
// admin only.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	if _, err := parseID(c, "id"); err != nil {
		return nil
	}
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}

	err = s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type threadedComment struct {
	*models.Comment
	Replies []*models.Comment `json:"replies"`
}

// threadComments groups a flat, chronologically ordered comment list
// into top-level comments each carrying its replies.
func threadComments(comments []*models.Comment) []*threadedComment {
	thread := make([]*threadedComment, 0, len(comments))
	byID := make(map[uint]*threadedComment, len(comments))

	for _, comment := range comments {
		if comment.ParentID == nil {
			node := &threadedComment{Comment: comment, Replies: []*models.Comment{}}
			thread = append(thread, node)
			byID[comment.ID] = node
		}
	}
	for _, comment := range comments {
		if comment.ParentID == nil {
			continue
		}
		if parent, ok := byID[*comment.ParentID]; ok {
			parent.Replies = append(parent.Replies, comment)
		}
	}
	return thread
}
