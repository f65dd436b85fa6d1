package service

import (
	"context"
	"encoding/json"

	"github.com/khoahotran/custom-catalogs/internal/domain/media"
)

// Details carries the enrichment fields TMDB can deliver for a title. Every
// field is optional: whatever the upstream response lacks stays nil and is
// omitted downstream.
type Details struct {
	Genres          []string
	Description     *string
	Rating          *float64
	ImdbRating      *string
	Runtime         *string
	ReleaseDate     *string
	LastEpisodeDate *string
	Background      *string
	Logo            *string
	Actors          []string
	Directors       []string
	ImdbID          *string
}

// MetadataProvider is the outbound port to the third-party metadata API.
// Search and Discover are thin proxies whose payloads pass through verbatim;
// Details is the typed lookup the enrichment worker consumes.
type MetadataProvider interface {
	Search(ctx context.Context, query, mediaType string) (json.RawMessage, error)
	Discover(ctx context.Context, mediaType string, params map[string]string) (json.RawMessage, error)
	Details(ctx context.Context, tmdbID string, kind media.Kind) (*Details, error)
}
