package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/glesende/iagram-sub000/internal/models"
	"github.com/glesende/iagram-sub000/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	settingsRepository     repositories.NotificationSettingsRepository
	actorRepository        repositories.ActorRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, settingsRepo repositories.NotificationSettingsRepository, actorRepo repositories.ActorRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		settingsRepository:     settingsRepo,
		actorRepository:        actorRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.GET("/notifications/settings", h.GetSettings)
	g.PUT("/notifications/settings", h.UpdateSettings)
}

// EnrichedNotification includes actor info
type EnrichedNotification struct {
	models.Notification
	Actor *models.ActorCompact `json:"actor,omitempty"`
}

func (h *NotificationHandler) enrichNotifications(notifications []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	actorCache := make(map[uint]models.ActorCompact)

	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if n.ActorID == nil {
			continue
		}
		if actor, ok := actorCache[*n.ActorID]; ok {
			enriched[i].Actor = &actor
		} else {
			actor, err := h.actorRepository.GetActorByID(*n.ActorID)
			if err == nil {
				compact := actor.ToCompact()
				actorCache[*n.ActorID] = compact
				enriched[i].Actor = &compact
			}
		}
	}
	return enriched
}

// GetNotifications returns paginated notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	notifications, total, err := h.notificationRepository.GetByRecipientID(currentUserID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	enriched := h.enrichNotifications(notifications)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": enriched,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      total,
			"itemsPerPage":    limit,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
		},
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.notificationRepository.GetUnreadCount(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"count": count}})
}

// MarkAsRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	if err := h.notificationRepository.MarkAsRead(currentUserID, uint(notifID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"success": true}})
}

// MarkAllAsRead marks all of the caller's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.MarkAllAsRead(currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"success": true}})
}

// GetSettings returns the caller's delivery toggles, creating defaults on first access
func (h *NotificationHandler) GetSettings(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	settings, err := h.settingsRepository.GetOrCreate(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": settings})
}

// UpdateSettingsRequest defines the request body for updating delivery toggles
type UpdateSettingsRequest struct {
	LikesEnabled    *bool `json:"likes_enabled,omitempty"`
	CommentsEnabled *bool `json:"comments_enabled,omitempty"`
	FollowsEnabled  *bool `json:"follows_enabled,omitempty"`
	MentionsEnabled *bool `json:"mentions_enabled,omitempty"`
	NewPostsEnabled *bool `json:"new_posts_enabled,omitempty"`
}

// UpdateSettings updates the caller's delivery toggles
func (h *NotificationHandler) UpdateSettings(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	settings, err := h.settingsRepository.GetOrCreate(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.LikesEnabled != nil {
		settings.LikesEnabled = *req.LikesEnabled
	}
	if req.CommentsEnabled != nil {
		settings.CommentsEnabled = *req.CommentsEnabled
	}
	if req.FollowsEnabled != nil {
		settings.FollowsEnabled = *req.FollowsEnabled
	}
	if req.MentionsEnabled != nil {
		settings.MentionsEnabled = *req.MentionsEnabled
	}
	if req.NewPostsEnabled != nil {
		settings.NewPostsEnabled = *req.NewPostsEnabled
	}

	if err := h.settingsRepository.Update(settings); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": settings})
}
