// Package notifications implements the social event fan-out engine: each
// event type has its own idempotent write path with per-recipient settings
// checks and rolling dedup windows.
package notifications

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/glesende/iagram-sub000/internal/models"
	"github.com/glesende/iagram-sub000/internal/repositories"
)

// Dedup windows per event type. Comments and mentions are never deduplicated.
const (
	likeDedupWindow   = 5 * time.Minute
	followDedupWindow = 24 * time.Hour
)

// Event is one social event to fan out. Build events with the typed
// constructors below rather than filling the struct directly.
type Event struct {
	Type             string
	ActorID          uint // Actor that triggered the event
	PostID           string
	CommentID        uint
	FollowedActorID  uint
	MentionedActorID uint
}

// LikeEvent is emitted when an actor likes a post.
func LikeEvent(actorID uint, postID string) Event {
	return Event{Type: models.NotificationTypeLike, ActorID: actorID, PostID: postID}
}

// CommentEvent is emitted when an actor comments on a post.
func CommentEvent(actorID uint, postID string, commentID uint) Event {
	return Event{Type: models.NotificationTypeComment, ActorID: actorID, PostID: postID, CommentID: commentID}
}

// FollowEvent is emitted when an actor starts following another actor.
func FollowEvent(actorID, followedActorID uint) Event {
	return Event{Type: models.NotificationTypeFollow, ActorID: actorID, FollowedActorID: followedActorID}
}

// MentionEvent is emitted when an actor mentions another actor in a post or comment.
func MentionEvent(actorID, mentionedActorID uint, postID string) Event {
	return Event{Type: models.NotificationTypeMention, ActorID: actorID, MentionedActorID: mentionedActorID, PostID: postID}
}

// NewPostEvent is emitted when an actor publishes a post; it fans out to
// every follower of the actor.
func NewPostEvent(actorID uint, postID string) Event {
	return Event{Type: models.NotificationTypeNewPost, ActorID: actorID, PostID: postID}
}

// FanOutEngine resolves recipients for social events and persists at most one
// notification per (type, recipient, actor, subject) tuple per dedup window.
type FanOutEngine struct {
	actors        repositories.ActorRepository
	posts         repositories.PostRepository
	follows       repositories.FollowRepository
	settings      repositories.NotificationSettingsRepository
	notifications repositories.NotificationRepository
	log           *zap.Logger
}

// NewFanOutEngine creates a FanOutEngine.
func NewFanOutEngine(
	actors repositories.ActorRepository,
	posts repositories.PostRepository,
	follows repositories.FollowRepository,
	settings repositories.NotificationSettingsRepository,
	notifications repositories.NotificationRepository,
	log *zap.Logger,
) *FanOutEngine {
	return &FanOutEngine{
		actors:        actors,
		posts:         posts,
		follows:       follows,
		settings:      settings,
		notifications: notifications,
		log:           log,
	}
}

// Dispatch routes one event through its type's write path. An event whose
// recipient has no linked user is dropped silently; a disabled settings
// toggle or a dedup-window hit drops the event as well.
func (e *FanOutEngine) Dispatch(ctx context.Context, event Event) error {
	switch event.Type {
	case models.NotificationTypeLike:
		return e.dispatchLike(ctx, event)
	case models.NotificationTypeComment:
		return e.dispatchComment(ctx, event)
	case models.NotificationTypeFollow:
		return e.dispatchFollow(event)
	case models.NotificationTypeMention:
		return e.dispatchMention(event)
	case models.NotificationTypeNewPost:
		return e.dispatchNewPost(ctx, event)
	}
	return fmt.Errorf("unknown event type %q", event.Type)
}

func (e *FanOutEngine) dispatchLike(ctx context.Context, event Event) error {
	post, err := e.posts.GetPostByID(ctx, event.PostID)
	if err != nil {
		return err
	}
	// Self-like on the recipient's own actor never notifies.
	if post.ActorID == event.ActorID {
		return nil
	}

	owner, err := e.actors.GetActorByID(post.ActorID)
	if err != nil {
		return err
	}
	if owner.UserID == nil {
		return nil
	}

	actor, err := e.actors.GetActorByID(event.ActorID)
	if err != nil {
		return err
	}

	actorID := event.ActorID
	return e.deliver(&models.Notification{
		Type:        models.NotificationTypeLike,
		RecipientID: *owner.UserID,
		ActorID:     &actorID,
		PostID:      event.PostID,
		Message:     actor.DisplayName + " liked your post",
	}, likeDedupWindow)
}

func (e *FanOutEngine) dispatchComment(ctx context.Context, event Event) error {
	post, err := e.posts.GetPostByID(ctx, event.PostID)
	if err != nil {
		return err
	}
	if post.ActorID == event.ActorID {
		return nil
	}

	owner, err := e.actors.GetActorByID(post.ActorID)
	if err != nil {
		return err
	}
	if owner.UserID == nil {
		return nil
	}

	actor, err := e.actors.GetActorByID(event.ActorID)
	if err != nil {
		return err
	}

	actorID := event.ActorID
	commentID := event.CommentID
	return e.deliver(&models.Notification{
		Type:        models.NotificationTypeComment,
		RecipientID: *owner.UserID,
		ActorID:     &actorID,
		PostID:      event.PostID,
		CommentID:   &commentID,
		Message:     actor.DisplayName + " commented on your post",
	}, 0)
}

func (e *FanOutEngine) dispatchFollow(event Event) error {
	followed, err := e.actors.GetActorByID(event.FollowedActorID)
	if err != nil {
		return err
	}
	if followed.UserID == nil {
		return nil
	}

	actor, err := e.actors.GetActorByID(event.ActorID)
	if err != nil {
		return err
	}

	actorID := event.ActorID
	followedActorID := event.FollowedActorID
	return e.deliver(&models.Notification{
		Type:            models.NotificationTypeFollow,
		RecipientID:     *followed.UserID,
		ActorID:         &actorID,
		FollowedActorID: &followedActorID,
		Message:         actor.DisplayName + " started following " + followed.DisplayName,
	}, followDedupWindow)
}

func (e *FanOutEngine) dispatchMention(event Event) error {
	// Self-mentions never notify.
	if event.MentionedActorID == event.ActorID {
		return nil
	}

	mentioned, err := e.actors.GetActorByID(event.MentionedActorID)
	if err != nil {
		return err
	}
	if mentioned.UserID == nil {
		return nil
	}

	actor, err := e.actors.GetActorByID(event.ActorID)
	if err != nil {
		return err
	}

	actorID := event.ActorID
	return e.deliver(&models.Notification{
		Type:        models.NotificationTypeMention,
		RecipientID: *mentioned.UserID,
		ActorID:     &actorID,
		PostID:      event.PostID,
		Message:     actor.DisplayName + " mentioned @" + mentioned.Handle,
	}, 0)
}

func (e *FanOutEngine) dispatchNewPost(ctx context.Context, event Event) error {
	actor, err := e.actors.GetActorByID(event.ActorID)
	if err != nil {
		return err
	}

	followerIDs, err := e.follows.GetFollowerIDs(event.ActorID)
	if err != nil {
		return err
	}

	actorID := event.ActorID
	for _, userID := range followerIDs {
		// One notification per follower per post, regardless of how often
		// the event is replayed.
		err := e.deliverOnce(&models.Notification{
			Type:        models.NotificationTypeNewPost,
			RecipientID: userID,
			ActorID:     &actorID,
			PostID:      event.PostID,
			Message:     actor.DisplayName + " shared a new post",
		})
		if err != nil {
			e.log.Warn("new-post delivery failed",
				zap.Uint("recipient_id", userID), zap.String("post_id", event.PostID), zap.Error(err))
		}
	}
	return nil
}

// deliver checks the recipient's settings toggle and, when window > 0, the
// rolling dedup window, then inserts the notification unread.
func (e *FanOutEngine) deliver(n *models.Notification, window time.Duration) error {
	settings, err := e.settings.GetOrCreate(n.RecipientID)
	if err != nil {
		return err
	}
	if !settings.Enabled(n.Type) {
		return nil
	}

	if window > 0 {
		exists, err := e.notifications.ExistsSince(n, time.Now().Add(-window))
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
	}

	return e.notifications.CreateNotification(n)
}

// deliverOnce suppresses any second notification for the same tuple over all
// history, not just a rolling window.
func (e *FanOutEngine) deliverOnce(n *models.Notification) error {
	settings, err := e.settings.GetOrCreate(n.RecipientID)
	if err != nil {
		return err
	}
	if !settings.Enabled(n.Type) {
		return nil
	}

	exists, err := e.notifications.ExistsSince(n, time.Time{})
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return e.notifications.CreateNotification(n)
}
