package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/glesende/iagram-sub000/internal/models"
	"github.com/glesende/iagram-sub000/internal/notifications"
	"github.com/glesende/iagram-sub000/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// FollowHandler handles follow-related HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	actorRepository  repositories.ActorRepository
	fanout           *notifications.FanOutEngine
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, actorRepo repositories.ActorRepository, fanout *notifications.FanOutEngine) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		actorRepository:  actorRepo,
		fanout:           fanout,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/actors/:id/follow", h.FollowActor)
	g.DELETE("/actors/:id/follow", h.UnfollowActor)
	g.GET("/actors/:id/followers/count", h.GetFollowersCount)
}

// FollowActor subscribes the caller to an actor's posts
func (h *FollowHandler) FollowActor(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	actorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid actor ID")
	}

	target, err := h.actorRepository.GetActorByID(uint(actorID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Actor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	following, err := h.followRepository.IsFollowing(currentUserID, target.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if following {
		return echo.NewHTTPError(http.StatusConflict, "Already following this actor")
	}

	follow := &models.Follow{UserID: currentUserID, ActorID: target.ID}
	if err := h.followRepository.CreateFollow(follow); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.actorRepository.IncrementFollowersCount(target.ID, 1); err != nil {
		c.Logger().Warnf("failed to increment followers count for actor %d: %v", target.ID, err)
	}

	// The follow notification is triggered by the caller's own actor, when
	// one is linked to the account.
	if actor, err := h.actorRepository.GetByUserID(currentUserID); err == nil {
		if err := h.fanout.Dispatch(c.Request().Context(), notifications.FollowEvent(actor.ID, target.ID)); err != nil {
			c.Logger().Warnf("follow fan-out failed for actor %d: %v", target.ID, err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowActor removes the caller's subscription to an actor
func (h *FollowHandler) UnfollowActor(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	actorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid actor ID")
	}

	if err := h.followRepository.DeleteFollow(currentUserID, uint(actorID)); err != nil {
		if err.Error() == "follow relationship not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Not following this actor")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.actorRepository.IncrementFollowersCount(uint(actorID), -1); err != nil {
		c.Logger().Warnf("failed to decrement followers count for actor %d: %v", actorID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

// GetFollowersCount returns how many users follow an actor
func (h *FollowHandler) GetFollowersCount(c echo.Context) error {
	actorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid actor ID")
	}

	count, err := h.followRepository.GetFollowersCount(uint(actorID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"actor_id": actorID, "followers_count": count})
}
