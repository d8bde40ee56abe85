package handlers

import (
	"net/http"
	"strconv"

	"github.com/glesende/iagram-sub000/internal/models"
	"github.com/glesende/iagram-sub000/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// guestSessionCookie identifies an anonymous browser session so guests can
// delete their own comments without an account.
const guestSessionCookie = "guest_session"

// CommentHandler handles guest comment HTTP requests. Actor comments are
// written by the comment scheduler, never through this handler.
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	actorRepository   repositories.ActorRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, actorRepo repositories.ActorRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		actorRepository:   actorRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/posts/:post_id/comments", h.GetComments)
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.DELETE("/posts/:post_id/comments/:id", h.DeleteComment)
}

// sessionID returns the caller's guest session, minting one on first contact.
func sessionID(c echo.Context) string {
	if cookie, err := c.Cookie(guestSessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	sid := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     guestSessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
	})
	return sid
}

// EnrichedComment includes actor info for actor-authored comments
type EnrichedComment struct {
	models.Comment
	Actor *models.ActorCompact `json:"actor,omitempty"`
}

// GetComments returns all comments on a post, actor info included
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID := c.Param("post_id")

	_, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enriched := make([]EnrichedComment, len(comments))
	actorCache := make(map[uint]models.ActorCompact)
	for i, comment := range comments {
		enriched[i] = EnrichedComment{Comment: comment}
		if comment.ActorID == nil {
			continue
		}
		if actor, ok := actorCache[*comment.ActorID]; ok {
			enriched[i].Actor = &actor
		} else if actor, err := h.actorRepository.GetActorByID(*comment.ActorID); err == nil {
			compact := actor.ToCompact()
			actorCache[*comment.ActorID] = compact
			enriched[i].Actor = &compact
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comments": enriched}})
}

// CreateComment creates a guest comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID := c.Param("post_id")

	_, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment := models.NewGuestComment(postID, sessionID(c), req.AuthorName, req.Content)
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementCommentsCount(c.Request().Context(), postID); err != nil {
		c.Logger().Warnf("failed to increment comments count for post %s: %v", postID, err)
	}

	return c.JSON(http.StatusCreated, comment)
}

// DeleteComment removes a guest comment owned by the caller's session
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	postID := c.Param("post_id")

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil || comment.PostID != postID {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if comment.IsActorAuthored() || comment.SessionID != sessionID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Comment belongs to another author")
	}

	if err := h.commentRepository.DeleteComment(comment.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.DecrementCommentsCount(c.Request().Context(), postID); err != nil {
		c.Logger().Warnf("failed to decrement comments count for post %s: %v", postID, err)
	}

	return c.NoContent(http.StatusNoContent)
}
