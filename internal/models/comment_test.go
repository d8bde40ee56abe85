package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentAuthorship(t *testing.T) {
	meta := &GenerationMeta{Model: "gemini-2.0-flash", Temperature: 0.9, GeneratedAt: time.Now()}

	t.Run("actor comment passes the create hook", func(t *testing.T) {
		c := NewActorComment("post-1", 7, "love this", meta)
		require.NoError(t, c.BeforeCreate(nil))
		assert.True(t, c.IsActorAuthored())
		assert.Equal(t, uint(7), *c.ActorID)
	})

	t.Run("guest comment passes the create hook", func(t *testing.T) {
		c := NewGuestComment("post-1", "sess-abc", "Dana", "great shot")
		require.NoError(t, c.BeforeCreate(nil))
		assert.False(t, c.IsActorAuthored())
		assert.Nil(t, c.Generation)
	})

	t.Run("both author kinds set is rejected", func(t *testing.T) {
		c := NewActorComment("post-1", 7, "hi", nil)
		c.SessionID = "sess-abc"
		assert.ErrorIs(t, c.BeforeCreate(nil), ErrInvalidAuthorship)
	})

	t.Run("neither author kind set is rejected", func(t *testing.T) {
		c := &Comment{PostID: "post-1", Content: "hi"}
		assert.ErrorIs(t, c.BeforeCreate(nil), ErrInvalidAuthorship)
	})

	t.Run("generation metadata on a guest comment is rejected", func(t *testing.T) {
		c := NewGuestComment("post-1", "sess-abc", "Dana", "great shot")
		c.Generation = meta
		assert.ErrorIs(t, c.BeforeCreate(nil), ErrInvalidAuthorship)
	})
}
