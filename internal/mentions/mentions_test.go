package mentions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/glesende/iagram-sub000/internal/models"
)

func TestExtract(t *testing.T) {
	t.Run("basic handles", func(t *testing.T) {
		assert.Equal(t, []string{"chef_sophia", "tech.tom"}, Extract("shoutout to @chef_sophia and @tech.tom!"))
	})

	t.Run("deduplicates in first-seen order", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, Extract("@a @b @a @b @a"))
	})

	t.Run("allowed characters", func(t *testing.T) {
		assert.Equal(t, []string{"user-1.x_y"}, Extract("ping @user-1.x_y ok"))
	})

	t.Run("no handles", func(t *testing.T) {
		assert.Nil(t, Extract("nothing to see here"))
		assert.Nil(t, Extract(""))
	})

	t.Run("double at sign matches from the second at", func(t *testing.T) {
		// Long-standing behavior: the pattern matches from each @ forward.
		assert.Equal(t, []string{"user"}, Extract("hello @@user"))
	})

	t.Run("bare at sign is not a mention", func(t *testing.T) {
		assert.Nil(t, Extract("meet me @ the cafe"))
	})
}

type stubDirectory struct {
	actors []models.Actor
}

func (d *stubDirectory) ListActive() ([]models.Actor, error) { return d.actors, nil }

func (d *stubDirectory) GetActorByID(id uint) (*models.Actor, error) {
	for _, a := range d.actors {
		if a.ID == id {
			actor := a
			return &actor, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (d *stubDirectory) GetByHandles(handles []string) ([]models.Actor, error) {
	var found []models.Actor
	for _, a := range d.actors {
		for _, h := range handles {
			if a.Handle == h {
				found = append(found, a)
			}
		}
	}
	return found, nil
}

func (d *stubDirectory) GetByUserID(userID uint) (*models.Actor, error) {
	return nil, gorm.ErrRecordNotFound
}

func (d *stubDirectory) IncrementFollowersCount(actorID uint, delta int) error { return nil }

func TestResolver_Process(t *testing.T) {
	resolver := NewResolver(&stubDirectory{actors: []models.Actor{
		{ID: 1, Handle: "chef_sophia"},
		{ID: 2, Handle: "tech_tom"},
	}})

	t.Run("keeps only known handles, preserving order", func(t *testing.T) {
		actors, err := resolver.Process("cc @tech_tom @nobody @chef_sophia")
		require.NoError(t, err)
		require.Len(t, actors, 2)
		assert.Equal(t, "tech_tom", actors[0].Handle)
		assert.Equal(t, "chef_sophia", actors[1].Handle)
	})

	t.Run("resolving twice yields the same set", func(t *testing.T) {
		text := "hey @chef_sophia meet @tech_tom and @ghost"
		first, err := resolver.Process(text)
		require.NoError(t, err)

		// Rebuild a mention string from the first pass and resolve again.
		rebuilt := ""
		for _, a := range first {
			rebuilt += "@" + a.Handle + " "
		}
		second, err := resolver.Process(rebuilt)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("empty text resolves to nothing", func(t *testing.T) {
		actors, err := resolver.Process("")
		require.NoError(t, err)
		assert.Empty(t, actors)
	})
}
