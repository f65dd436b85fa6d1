package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/custom-catalogs/internal/domain/media"
)

// Catalog is a named, typed, ordered collection of media references owned by
// one user. Kind is mandatory; mixed catalogs are not allowed.
type Catalog struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Name      string     `json:"name"`
	Kind      media.Kind `json:"kind"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

var ErrKindMismatch = errors.New("item kind does not match catalog kind")

func (c *Catalog) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("name is required")
	}
	if _, err := media.ParseKind(string(c.Kind)); err != nil {
		return err
	}
	return nil
}

// Item links a media item into a catalog at a position. Positions are the
// sole ordering authority; created_at is informational.
type Item struct {
	CatalogID   uuid.UUID `json:"catalog_id"`
	MediaItemID uuid.UUID `json:"media_item_id"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

// Entry is the read model for an ordered listing: a link joined with the
// media row it points at.
type Entry struct {
	Position int
	Media    media.Item
}

// Ref is a membership reference as submitted by a client or an import
// document: the minimal fields needed to resolve or create the media row.
type Ref struct {
	TmdbID string
	Kind   media.Kind
	Title  string
	Poster *string
}

func (r Ref) Validate() error {
	if strings.TrimSpace(r.TmdbID) == "" {
		return errors.New("tmdb id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if _, err := media.ParseKind(string(r.Kind)); err != nil {
		return err
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, c *Catalog) error
	Rename(ctx context.Context, id, ownerID uuid.UUID, name string) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Catalog, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*Catalog, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Catalog, error)
	// ListEntries returns the catalog's membership joined with media rows,
	// ordered by position ascending.
	ListEntries(ctx context.Context, catalogID uuid.UUID) ([]Entry, error)
	// MaxPosition returns the highest link position, or -1 for an empty
	// catalog.
	MaxPosition(ctx context.Context, catalogID uuid.UUID) (int, error)
	// ReplaceLinks atomically swaps the catalog's entire membership: all
	// existing links are removed and the given ones inserted in a single
	// transaction. A failure leaves the prior membership intact.
	ReplaceLinks(ctx context.Context, catalogID uuid.UUID, links []Item) error
	AppendLink(ctx context.Context, link Item) error
}
