package generation

import (
	"fmt"

	"github.com/glesende/iagram-sub000/internal/models"
)

// relationshipBetween derives the narrative relationship string passed to the
// comment prompt. Ordered priority rule: same niche wins, then the first
// shared interest in the commenter's original order, then a generic fallback.
func relationshipBetween(commenter, author models.Actor) string {
	if commenter.Niche != "" && commenter.Niche == author.Niche {
		return fmt.Sprintf("fellow %s actor", commenter.Niche)
	}

	authorInterests := make(map[string]struct{}, len(author.Interests))
	for _, interest := range author.Interests {
		authorInterests[interest] = struct{}{}
	}
	for _, interest := range commenter.Interests {
		if _, ok := authorInterests[interest]; ok {
			return fmt.Sprintf("friend with shared interest in %s", interest)
		}
	}

	return "fellow actor"
}
