package models

import "time"

// Notification type constants
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeFollow  = "follow"
	NotificationTypeMention = "mention"
	NotificationTypeNewPost = "new_post"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Type            string    `json:"type" gorm:"size:30;index"`
	RecipientID     uint      `json:"recipient_id" gorm:"index"`
	ActorID         *uint     `json:"actor_id,omitempty" gorm:"index"` // Actor that triggered the notification
	PostID          string    `json:"post_id,omitempty"`               // Mongo ObjectID of the subject post, if any
	CommentID       *uint     `json:"comment_id,omitempty"`
	FollowedActorID *uint     `json:"followed_actor_id,omitempty"`
	Message         string    `json:"message"`
	IsRead          bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
}

// NotificationSettings holds per-user delivery toggles. One row per user,
// created lazily with all toggles enabled.
type NotificationSettings struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"uniqueIndex"`
	LikesEnabled    bool      `json:"likes_enabled" gorm:"default:true"`
	CommentsEnabled bool      `json:"comments_enabled" gorm:"default:true"`
	FollowsEnabled  bool      `json:"follows_enabled" gorm:"default:true"`
	MentionsEnabled bool      `json:"mentions_enabled" gorm:"default:true"`
	NewPostsEnabled bool      `json:"new_posts_enabled" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultNotificationSettings returns the all-enabled settings row for a user.
func DefaultNotificationSettings(userID uint) *NotificationSettings {
	return &NotificationSettings{
		UserID:          userID,
		LikesEnabled:    true,
		CommentsEnabled: true,
		FollowsEnabled:  true,
		MentionsEnabled: true,
		NewPostsEnabled: true,
	}
}

// Enabled reports whether delivery is enabled for the given notification type.
// Unknown types default to enabled.
func (s *NotificationSettings) Enabled(notificationType string) bool {
	switch notificationType {
	case NotificationTypeLike:
		return s.LikesEnabled
	case NotificationTypeComment:
		return s.CommentsEnabled
	case NotificationTypeFollow:
		return s.FollowsEnabled
	case NotificationTypeMention:
		return s.MentionsEnabled
	case NotificationTypeNewPost:
		return s.NewPostsEnabled
	}
	return true
}
