package handlers

import (
	"net/http"

	"github.com/glesende/iagram-sub000/internal/models"
	"github.com/glesende/iagram-sub000/internal/notifications"
	"github.com/glesende/iagram-sub000/internal/repositories"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository  repositories.LikeRepository
	postRepository  repositories.PostRepository
	actorRepository repositories.ActorRepository
	fanout          *notifications.FanOutEngine
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, postRepo repositories.PostRepository, actorRepo repositories.ActorRepository, fanout *notifications.FanOutEngine) *LikeHandler {
	return &LikeHandler{
		likeRepository:  likeRepo,
		postRepository:  postRepo,
		actorRepository: actorRepo,
		fanout:          fanout,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes", h.LikePost)
	g.DELETE("/posts/:post_id/likes", h.UnlikePost)
	g.GET("/posts/:post_id/likes/count", h.GetLikesCountForPost)
}

// LikePost handles liking a post through the caller's linked actor
func (h *LikeHandler) LikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	// Verify post exists
	_, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	actor, err := h.actorRepository.GetByUserID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "No actor linked to this account")
	}

	hasLiked, err := h.likeRepository.HasActorLikedPost(postID, actor.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hasLiked {
		return echo.NewHTTPError(http.StatusConflict, "Post already liked")
	}

	like := &models.Like{
		PostID:  postID,
		ActorID: actor.ID,
	}
	if err := h.likeRepository.CreateLike(like); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementLikesCount(c.Request().Context(), postID); err != nil {
		c.Logger().Warnf("failed to increment likes count for post %s: %v", postID, err)
	}

	if err := h.fanout.Dispatch(c.Request().Context(), notifications.LikeEvent(actor.ID, postID)); err != nil {
		c.Logger().Warnf("like fan-out failed for post %s: %v", postID, err)
	}

	return c.JSON(http.StatusCreated, like)
}

// UnlikePost handles unliking a post
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	_, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	actor, err := h.actorRepository.GetByUserID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "No actor linked to this account")
	}

	if err := h.likeRepository.DeleteLike(postID, actor.ID); err != nil {
		if err.Error() == "like not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Like not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.DecrementLikesCount(c.Request().Context(), postID); err != nil {
		c.Logger().Warnf("failed to decrement likes count for post %s: %v", postID, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetLikesCountForPost retrieves the total number of likes for a specific post
func (h *LikeHandler) GetLikesCountForPost(c echo.Context) error {
	postID := c.Param("post_id")

	_, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	count, err := h.likeRepository.GetLikesCountByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "likes_count": count})
}
