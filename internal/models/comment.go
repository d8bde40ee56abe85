package models

import (
	"errors"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. Authorship is exactly one of:
// a synthetic actor (ActorID set, generation metadata recorded) or a human
// guest session (SessionID and AuthorName set). Construct comments through
// NewActorComment or NewGuestComment so the variant stays valid.
type Comment struct {
	gorm.Model
	PostID     string          `json:"post_id" gorm:"index;uniqueIndex:idx_comment_post_actor"` // Mongo ObjectID of the post, as hex string
	ActorID    *uint           `json:"actor_id,omitempty" gorm:"uniqueIndex:idx_comment_post_actor"`
	SessionID  string          `json:"session_id,omitempty" gorm:"size:64"`
	AuthorName string          `json:"author_name,omitempty" gorm:"size:50"`
	Content    string          `json:"content" validate:"required,min=1,max=500"`
	Generation *GenerationMeta `json:"generation,omitempty" gorm:"serializer:json"`
}

// ErrInvalidAuthorship is returned when a comment does not have exactly one author kind set.
var ErrInvalidAuthorship = errors.New("comment must have exactly one of actor or guest session authorship")

// NewActorComment builds an actor-authored comment with generation metadata.
func NewActorComment(postID string, actorID uint, content string, meta *GenerationMeta) *Comment {
	return &Comment{
		PostID:     postID,
		ActorID:    &actorID,
		Content:    content,
		Generation: meta,
	}
}

// NewGuestComment builds a human-session comment. Guest comments carry no
// generation metadata.
func NewGuestComment(postID, sessionID, authorName, content string) *Comment {
	return &Comment{
		PostID:     postID,
		SessionID:  sessionID,
		AuthorName: authorName,
		Content:    content,
	}
}

// IsActorAuthored reports whether the comment was written by a synthetic actor.
func (c *Comment) IsActorAuthored() bool {
	return c.ActorID != nil
}

// BeforeCreate enforces the mutually exclusive authorship variant at the
// storage boundary.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	actor := c.ActorID != nil
	guest := c.SessionID != "" || c.AuthorName != ""
	if actor == guest {
		return ErrInvalidAuthorship
	}
	if !actor && c.Generation != nil {
		return ErrInvalidAuthorship
	}
	return nil
}

// CreateCommentRequest defines the request body for creating a new guest comment
type CreateCommentRequest struct {
	AuthorName string `json:"author_name" validate:"required,min=1,max=50"`
	Content    string `json:"content" validate:"required,min=1,max=500"`
}
