package document

import (
	"context"
	"fmt"
	"strings"
)

// ConflictResolver decides whether a candidate name collides with a stored
// record and derives a non-colliding alternative when the caller has approved
// a rename.
type ConflictResolver struct {
	repo Repository
}

func NewConflictResolver(repo Repository) *ConflictResolver {
	return &ConflictResolver{repo: repo}
}

// Collides reports whether any record other than the copy source already uses
// the candidate name. The source's own record never counts against its copy.
func (r *ConflictResolver) Collides(ctx context.Context, name string, sourceID int64) (bool, error) {
	return r.repo.NameExistsExcept(ctx, name, sourceID)
}

// UniqueName appends " (1)", " (2)", ... before the extension until no stored
// record uses the resulting name.
func (r *ConflictResolver) UniqueName(ctx context.Context, base string) (string, error) {
	ext := extension(base)
	nameStem := stem(base)
	candidate := base

	for counter := 1; ; counter++ {
		exists, err := r.repo.NameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s (%d)%s", nameStem, counter, ext)
	}
}

// renameApproved reports whether the caller pre-approved renaming this
// candidate. The widget sends back the colliding names verbatim, so a prefix
// match covers names it decorated client-side.
func renameApproved(renameFiles []string, name string) bool {
	for _, r := range renameFiles {
		if strings.HasPrefix(r, name) {
			return true
		}
	}
	return false
}
