package generation

import "math/rand"

// Picker isolates the pipeline's randomness so tests can substitute a
// deterministic implementation.
type Picker interface {
	// CountBetween returns a uniform value in [min, max].
	CountBetween(min, max int) int
	// Index returns a uniform value in [0, n).
	Index(n int) int
}

type randPicker struct {
	rng *rand.Rand
}

// NewPicker returns a Picker backed by a source with the given seed.
func NewPicker(seed int64) Picker {
	return &randPicker{rng: rand.New(rand.NewSource(seed))}
}

func (p *randPicker) CountBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + p.rng.Intn(max-min+1)
}

func (p *randPicker) Index(n int) int {
	return p.rng.Intn(n)
}
