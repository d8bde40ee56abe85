package repositories

import (
	"errors"
	"time"

	"github.com/glesende/iagram-sub000/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	ExistsSince(notification *models.Notification, since time.Time) (bool, error)
	GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(recipientID, notificationID uint) error
	MarkAllAsRead(recipientID uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new NotificationRepository backed by PostgreSQL
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

// CreateNotification inserts a notification row. A duplicate-key race at the
// storage layer is treated as a no-op.
func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

// ExistsSince checks for a notification with the same (type, recipient, actor,
// subject) tuple created at or after the given time. Used for dedup windows.
func (r *postgresNotificationRepository) ExistsSince(n *models.Notification, since time.Time) (bool, error) {
	query := r.db.Model(&models.Notification{}).
		Where("type = ? AND recipient_id = ? AND created_at >= ?", n.Type, n.RecipientID, since)
	if n.ActorID != nil {
		query = query.Where("actor_id = ?", *n.ActorID)
	}
	if n.PostID != "" {
		query = query.Where("post_id = ?", n.PostID)
	}
	if n.CommentID != nil {
		query = query.Where("comment_id = ?", *n.CommentID)
	}
	if n.FollowedActorID != nil {
		query = query.Where("followed_actor_id = ?", *n.FollowedActorID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByRecipientID returns paginated notifications for a recipient, newest first
func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total)

	offset := (page - 1) * limit
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

// GetUnreadCount returns the number of unread notifications for a recipient
func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Count(&count).Error
	return count, err
}

// MarkAsRead marks one notification as read. Scoped to the recipient so a
// user can never mark another user's notifications.
func (r *postgresNotificationRepository) MarkAsRead(recipientID, notificationID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true).Error
}

// MarkAllAsRead marks every unread notification for the recipient as read
func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Update("is_read", true).Error
}
