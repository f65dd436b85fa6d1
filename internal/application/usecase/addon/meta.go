package addon

import (
	"net/url"
	"time"

	"github.com/khoahotran/custom-catalogs/internal/domain/media"
)

const (
	metaIDPrefix      = "tmdb:"
	posterSizeVariant = "/w500"
	imdbTitleBaseURL  = "https://imdb.com/title/"

	categoryIMDB      = "imdb"
	categoryCast      = "Cast"
	categoryDirectors = "Directors"
)

// Meta is one catalog entry in the shape the Stremio client expects. The
// client schema tolerates missing fields but not null-typed ones, so every
// optional field is omitted when the stored item lacks it.
type Meta struct {
	ID             string     `json:"id"`
	Type           string     `json:"type"`
	Name           string     `json:"name"`
	Poster         string     `json:"poster,omitempty"`
	Description    string     `json:"description,omitempty"`
	Genres         []string   `json:"genres,omitempty"`
	ImdbRating     string     `json:"imdbRating,omitempty"`
	Runtime        string     `json:"runtime,omitempty"`
	ReleaseInfo    string     `json:"releaseInfo,omitempty"`
	Released       string     `json:"released,omitempty"`
	LastVideosDate string     `json:"lastVideosDate,omitempty"`
	Background     string     `json:"background,omitempty"`
	Logo           string     `json:"logo,omitempty"`
	Cast           []string   `json:"cast,omitempty"`
	Director       []string   `json:"director,omitempty"`
	Links          []MetaLink `json:"links,omitempty"`
}

type MetaLink struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	URL      string `json:"url"`
}

// buildMeta projects one stored media item into its feed record.
// imageBaseURL is the TMDB image CDN root; poster refs are stored as CDN
// paths while background/logo are stored as absolute URLs at enrichment
// time and pass through verbatim.
func buildMeta(item media.Item, imageBaseURL string) Meta {
	m := Meta{
		ID:   metaIDPrefix + item.TmdbID,
		Type: string(item.Kind),
		Name: item.Title,
	}

	if item.Poster != nil && *item.Poster != "" {
		m.Poster = imageBaseURL + posterSizeVariant + *item.Poster
	}
	if item.Description != nil {
		m.Description = *item.Description
	}
	m.Genres = item.Genres
	if item.ImdbRating != nil {
		m.ImdbRating = *item.ImdbRating
	}
	if item.Runtime != nil {
		m.Runtime = *item.Runtime
	}
	if item.ReleaseDate != nil && *item.ReleaseDate != "" {
		m.ReleaseInfo = *item.ReleaseDate
		if released, err := time.Parse("2006-01-02", *item.ReleaseDate); err == nil {
			m.Released = released.UTC().Format(time.RFC3339)
		}
	}
	if item.Kind == media.KindSeries && item.LastEpisodeDate != nil {
		m.LastVideosDate = *item.LastEpisodeDate
	}
	if item.Background != nil {
		m.Background = *item.Background
	}
	if item.Logo != nil {
		m.Logo = *item.Logo
	}

	actors := splitStored(item.Actors)
	directors := splitStored(item.Directors)
	m.Cast = actors
	m.Director = directors
	m.Links = buildLinks(item, actors, directors)

	return m
}

// buildLinks derives the meta's link list: a rating link only when both the
// external rating id and the displayed rating exist, plus one in-client
// search action per actor and director.
func buildLinks(item media.Item, actors, directors []string) []MetaLink {
	var links []MetaLink

	if item.ImdbID != nil && *item.ImdbID != "" && item.ImdbRating != nil && *item.ImdbRating != "" {
		links = append(links, MetaLink{
			Name:     *item.ImdbRating,
			Category: categoryIMDB,
			URL:      imdbTitleBaseURL + *item.ImdbID,
		})
	}
	for _, name := range actors {
		links = append(links, MetaLink{
			Name:     name,
			Category: categoryCast,
			URL:      searchActionURL(name),
		})
	}
	for _, name := range directors {
		links = append(links, MetaLink{
			Name:     name,
			Category: categoryDirectors,
			URL:      searchActionURL(name),
		})
	}
	return links
}

func searchActionURL(name string) string {
	return "stremio:///search?search=" + url.QueryEscape(name)
}

func splitStored(joined *string) []string {
	if joined == nil {
		return nil
	}
	return media.SplitNames(*joined)
}
