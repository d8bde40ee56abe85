package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSimilar(t *testing.T) {
	t.Run("identical text is similar", func(t *testing.T) {
		assert.True(t, IsSimilar("morning coffee ritual", []string{"morning coffee ritual"}))
	})

	t.Run("disjoint text is not similar", func(t *testing.T) {
		assert.False(t, IsSimilar("sunset over the mountains", []string{"fresh pasta with basil tonight"}))
	})

	t.Run("ratio strictly above threshold flags", func(t *testing.T) {
		// candidate has 5 words, 3 overlap -> 0.6 > 0.4
		candidate := "coffee beans from ethiopia today"
		assert.True(t, IsSimilar(candidate, []string{"coffee beans ethiopia harvest"}))
	})

	t.Run("ratio at threshold does not flag", func(t *testing.T) {
		// candidate has 5 words, 2 overlap -> 0.4, not strictly above
		candidate := "coffee beans from ethiopia today"
		assert.False(t, IsSimilar(candidate, []string{"coffee beans grinder review"}))
	})

	t.Run("any recent text over threshold is enough", func(t *testing.T) {
		candidate := "coffee beans from ethiopia today"
		recent := []string{
			"completely unrelated gardening update",
			"coffee beans ethiopia harvest",
		}
		assert.True(t, IsSimilar(candidate, recent))
	})

	t.Run("empty candidate never matches", func(t *testing.T) {
		assert.False(t, IsSimilar("", []string{"anything at all"}))
		assert.False(t, IsSimilar("   ", []string{"anything at all"}))
	})

	t.Run("comparison ignores case and punctuation", func(t *testing.T) {
		assert.True(t, IsSimilar("Morning, COFFEE! Ritual?", []string{"morning coffee ritual"}))
	})

	t.Run("empty recent list never matches", func(t *testing.T) {
		assert.False(t, IsSimilar("some candidate text", nil))
	})
}
