package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind is the movie/series discriminator applied to both catalogs and items.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

var ErrInvalidKind = errors.New("kind must be 'movie' or 'series'")

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindMovie, KindSeries:
		return Kind(s), nil
	default:
		return "", ErrInvalidKind
	}
}

// Item is a deduplicated metadata record keyed by (TmdbID, Kind). The same
// row backs every catalog that references the title, regardless of owner.
// All fields beyond the first four are best-effort enrichment from TMDB.
type Item struct {
	ID              uuid.UUID `json:"id"`
	TmdbID          string    `json:"tmdb_id"`
	Kind            Kind      `json:"kind"`
	Title           string    `json:"title"`
	Poster          *string   `json:"poster"`
	Genres          []string  `json:"genres,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Rating          *float64  `json:"rating,omitempty"`
	ImdbRating      *string   `json:"imdb_rating,omitempty"`
	Runtime         *string   `json:"runtime,omitempty"`
	ReleaseDate     *string   `json:"release_date,omitempty"`
	LastEpisodeDate *string   `json:"last_episode_date,omitempty"`
	Background      *string   `json:"background,omitempty"`
	Logo            *string   `json:"logo,omitempty"`
	Actors          *string   `json:"actors,omitempty"`
	Directors       *string   `json:"directors,omitempty"`
	ImdbID          *string   `json:"imdb_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (i *Item) Validate() error {
	if strings.TrimSpace(i.TmdbID) == "" {
		return errors.New("tmdb id is required")
	}
	if strings.TrimSpace(i.Title) == "" {
		return errors.New("title is required")
	}
	if _, err := ParseKind(string(i.Kind)); err != nil {
		return err
	}
	return nil
}

// NaturalKey identifies an item independent of its row id.
func (i *Item) NaturalKey() string {
	return NaturalKey(i.TmdbID, i.Kind)
}

func NaturalKey(tmdbID string, kind Kind) string {
	return fmt.Sprintf("%s/%s", tmdbID, kind)
}

// NeedsEnrichment reports whether the item only carries the minimal fields
// captured at link time, so the worker should fetch TMDB details for it.
func (i *Item) NeedsEnrichment() bool {
	return i.Description == nil && len(i.Genres) == 0
}

// Actors and directors are persisted as a '#'-joined string, the format the
// enrichment source delivers them in.
const nameDelimiter = "#"

func SplitNames(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, nameDelimiter)
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return names
}

func JoinNames(names []string) string {
	return strings.Join(names, nameDelimiter)
}

type Repository interface {
	// Upsert inserts the item or refreshes title/poster of the existing row
	// sharing its natural key. The stored row is returned either way.
	Upsert(ctx context.Context, item *Item) (*Item, error)
	// GetOrCreate inserts the item unless its natural key already exists, in
	// which case the existing row is returned untouched.
	GetOrCreate(ctx context.Context, item *Item) (*Item, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindByNaturalKey(ctx context.Context, tmdbID string, kind Kind) (*Item, error)
	// UpdateEnrichment persists enrichment fields only; identity and the
	// link-time fields are left alone.
	UpdateEnrichment(ctx context.Context, item *Item) error
}
