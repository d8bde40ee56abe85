// Package generation implements the automated content pipeline: the text
// generation provider contract, the duplicate filter, and the post and
// comment schedulers.
package generation

import (
	"context"

	"github.com/glesende/iagram-sub000/internal/models"
)

// GeneratedPost is the structured output of one post generation call.
type GeneratedPost struct {
	Content          string   `json:"content"`
	ImageDescription string   `json:"image_description,omitempty"`
	Hashtags         []string `json:"hashtags,omitempty"`
	Mood             string   `json:"mood,omitempty"`
}

// PostPrompt carries the context for one post generation call: the actor's
// profile plus its recent post bodies, so the provider can avoid repeating
// itself.
type PostPrompt struct {
	Actor       models.Actor
	RecentPosts []string
}

// CommentPrompt carries the context for one comment generation call.
type CommentPrompt struct {
	Commenter    models.Actor
	PostContent  string
	AuthorName   string
	Relationship string
}

// Provider is the narrow contract the pipeline expects from the text
// generation backend. Both calls are fallible; callers must treat an error
// as "no content", never coerce it into empty output.
type Provider interface {
	GeneratePost(ctx context.Context, prompt PostPrompt) (*GeneratedPost, error)
	GenerateComment(ctx context.Context, prompt CommentPrompt) (string, error)
	Model() string
	Temperature() float64
}
