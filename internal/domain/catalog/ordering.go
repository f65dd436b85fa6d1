package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/custom-catalogs/internal/domain/media"
)

// Ordering rules: a link's position is an explicit integer per catalog.
// A full replace assigns 0..N-1 in input order; an incremental add takes
// max+1. Positions are pairwise distinct by construction, so a single
// ascending sort reconstructs the submitted order exactly.

var ErrDuplicateRef = errors.New("duplicate item in batch")

// ValidateRefs checks a replace batch before any write: every ref must be
// well-formed, match the catalog kind, and appear at most once by natural
// key. Callers must deduplicate before submission.
func ValidateRefs(kind media.Kind, refs []Ref) error {
	seen := make(map[string]struct{}, len(refs))
	for i, ref := range refs {
		if err := ref.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if ref.Kind != kind {
			return fmt.Errorf("item %d (%s): %w", i, ref.TmdbID, ErrKindMismatch)
		}
		key := media.NaturalKey(ref.TmdbID, ref.Kind)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("item %d (%s): %w", i, ref.TmdbID, ErrDuplicateRef)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// ResolveReplace builds the full link set for a catalog replace, one link per
// media id in input order. An empty input is valid and clears the catalog.
func ResolveReplace(catalogID uuid.UUID, mediaIDs []uuid.UUID, now time.Time) []Item {
	links := make([]Item, len(mediaIDs))
	for i, mediaID := range mediaIDs {
		links[i] = Item{
			CatalogID:   catalogID,
			MediaItemID: mediaID,
			Position:    i,
			CreatedAt:   now,
		}
	}
	return links
}

// NextPosition returns the position for an incremental add given the current
// maximum (-1 for an empty catalog).
func NextPosition(maxPosition int) int {
	return maxPosition + 1
}
