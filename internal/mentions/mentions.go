// Package mentions extracts @handle tokens from free text and resolves them
// against the actor directory.
package mentions

import (
	"regexp"

	"github.com/glesende/iagram-sub000/internal/models"
	"github.com/glesende/iagram-sub000/internal/repositories"
)

// handlePattern matches @ followed by handle characters. It matches from
// each @ forward, so "@@user" yields one match starting at the second @.
// That is long-observed behavior; keep it.
var handlePattern = regexp.MustCompile(`@([A-Za-z0-9._-]+)`)

// Extract returns the handles mentioned in text, stripped of the leading @,
// deduplicated, in first-seen order.
func Extract(text string) []string {
	matches := handlePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	handles := make([]string, 0, len(matches))
	for _, m := range matches {
		handle := m[1]
		if _, ok := seen[handle]; ok {
			continue
		}
		seen[handle] = struct{}{}
		handles = append(handles, handle)
	}
	return handles
}

// Resolver validates extracted handles against the actor directory.
type Resolver struct {
	actors repositories.ActorRepository
}

// NewResolver creates a Resolver backed by the given directory.
func NewResolver(actors repositories.ActorRepository) *Resolver {
	return &Resolver{actors: actors}
}

// Validate returns the actors whose handles appear in the given list,
// preserving the list's order.
func (r *Resolver) Validate(handles []string) ([]models.Actor, error) {
	found, err := r.actors.GetByHandles(handles)
	if err != nil {
		return nil, err
	}

	byHandle := make(map[string]models.Actor, len(found))
	for _, a := range found {
		byHandle[a.Handle] = a
	}

	actors := make([]models.Actor, 0, len(found))
	for _, h := range handles {
		if a, ok := byHandle[h]; ok {
			actors = append(actors, a)
		}
	}
	return actors, nil
}

// Process extracts and validates in one step. Running it on its own output's
// handles yields the same set, so resolving twice is harmless.
func (r *Resolver) Process(text string) ([]models.Actor, error) {
	return r.Validate(Extract(text))
}
