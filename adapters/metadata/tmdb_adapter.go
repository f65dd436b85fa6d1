package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/khoahotran/custom-catalogs/internal/application/service"
	"github.com/khoahotran/custom-catalogs/internal/config"
	"github.com/khoahotran/custom-catalogs/internal/domain/media"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

const castLimit = 10

type tmdbAdapter struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	language string
	log      logger.Logger
}

func NewTMDBAdapter(cfg config.Config, log logger.Logger) (service.MetadataProvider, error) {
	if cfg.TMDB.APIKey == "" {
		return nil, fmt.Errorf("TMDB API key is not configured")
	}

	log.Info("TMDB Metadata Adapter initialized")
	return &tmdbAdapter{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  strings.TrimRight(cfg.TMDB.BaseURL, "/"),
		apiKey:   cfg.TMDB.APIKey,
		language: cfg.TMDB.Language,
		log:      log,
	}, nil
}

func (a *tmdbAdapter) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	params.Set("api_key", a.apiKey)
	params.Set("language", a.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperror.NewInternal("failed to build TMDB request", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, apperror.NewUpstream("TMDB", "request to "+path+" failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewUpstream("TMDB", "reading response from "+path+" failed", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.NewUpstream("TMDB",
			fmt.Sprintf("%s returned status %d", path, resp.StatusCode), nil)
	}
	return body, nil
}

func (a *tmdbAdapter) Search(ctx context.Context, query, mediaType string) (json.RawMessage, error) {
	if mediaType == "" {
		mediaType = "multi"
	}
	params := url.Values{}
	params.Set("query", query)
	return a.get(ctx, "/search/"+mediaType, params)
}

func (a *tmdbAdapter) Discover(ctx context.Context, mediaType string, extra map[string]string) (json.RawMessage, error) {
	if mediaType == "" {
		mediaType = "movie"
	}
	params := url.Values{}
	for k, v := range extra {
		if v != "" {
			params.Set(k, v)
		}
	}
	return a.get(ctx, "/discover/"+mediaType, params)
}

// Wire shapes for the detail lookups. append_to_response folds credits,
// external ids and images into one round trip.

type tmdbCredit struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type tmdbDetailResponse struct {
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Overview         string       `json:"overview"`
	VoteAverage      float64      `json:"vote_average"`
	Runtime          int          `json:"runtime"`
	EpisodeRunTime   []int        `json:"episode_run_time"`
	ReleaseDate      string       `json:"release_date"`
	FirstAirDate     string       `json:"first_air_date"`
	LastAirDate      string       `json:"last_air_date"`
	BackdropPath     string       `json:"backdrop_path"`
	CreatedBy        []tmdbCredit `json:"created_by"`
	LastEpisodeToAir *struct {
		AirDate string `json:"air_date"`
	} `json:"last_episode_to_air"`
	Credits struct {
		Cast []tmdbCredit `json:"cast"`
		Crew []tmdbCredit `json:"crew"`
	} `json:"credits"`
	ExternalIDs struct {
		ImdbID string `json:"imdb_id"`
	} `json:"external_ids"`
	Images struct {
		Logos []struct {
			FilePath string `json:"file_path"`
			Language string `json:"iso_639_1"`
		} `json:"logos"`
	} `json:"images"`
}

func (a *tmdbAdapter) Details(ctx context.Context, tmdbID string, kind media.Kind) (*service.Details, error) {
	resource := "movie"
	if kind == media.KindSeries {
		resource = "tv"
	}

	params := url.Values{}
	params.Set("append_to_response", "credits,external_ids,images")

	body, err := a.get(ctx, fmt.Sprintf("/%s/%s", resource, tmdbID), params)
	if err != nil {
		return nil, err
	}

	var resp tmdbDetailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperror.NewUpstream("TMDB", "failed to decode detail response", err)
	}

	if kind == media.KindSeries {
		return a.seriesDetails(&resp), nil
	}
	return a.movieDetails(&resp), nil
}

func (a *tmdbAdapter) movieDetails(resp *tmdbDetailResponse) *service.Details {
	d := a.commonDetails(resp)

	for _, c := range resp.Credits.Crew {
		if c.Job == "Director" {
			d.Directors = append(d.Directors, c.Name)
		}
	}
	if resp.Runtime > 0 {
		d.Runtime = strPtr(fmt.Sprintf("%dh %dmin", resp.Runtime/60, resp.Runtime%60))
	}
	if resp.ReleaseDate != "" {
		d.ReleaseDate = strPtr(resp.ReleaseDate)
	}
	return d
}

func (a *tmdbAdapter) seriesDetails(resp *tmdbDetailResponse) *service.Details {
	d := a.commonDetails(resp)

	for _, c := range resp.CreatedBy {
		d.Directors = append(d.Directors, c.Name)
	}
	if len(resp.EpisodeRunTime) > 0 && resp.EpisodeRunTime[0] > 0 {
		d.Runtime = strPtr(fmt.Sprintf("%dmin", resp.EpisodeRunTime[0]))
	}
	if resp.FirstAirDate != "" {
		d.ReleaseDate = strPtr(resp.FirstAirDate)
	}
	if resp.LastEpisodeToAir != nil && resp.LastEpisodeToAir.AirDate != "" {
		d.LastEpisodeDate = strPtr(resp.LastEpisodeToAir.AirDate)
	} else if resp.LastAirDate != "" {
		d.LastEpisodeDate = strPtr(resp.LastAirDate)
	}
	return d
}

func (a *tmdbAdapter) commonDetails(resp *tmdbDetailResponse) *service.Details {
	d := &service.Details{}

	for _, g := range resp.Genres {
		d.Genres = append(d.Genres, g.Name)
	}
	if resp.Overview != "" {
		d.Description = strPtr(resp.Overview)
	}
	if resp.VoteAverage > 0 {
		rating := resp.VoteAverage
		d.Rating = &rating
		d.ImdbRating = strPtr(fmt.Sprintf("%.1f", rating))
	}
	if resp.BackdropPath != "" {
		d.Background = strPtr("https://image.tmdb.org/t/p/original" + resp.BackdropPath)
	}
	if logo := a.pickLogo(resp); logo != "" {
		d.Logo = strPtr("https://image.tmdb.org/t/p/original" + logo)
	}

	cast := resp.Credits.Cast
	if len(cast) > castLimit {
		cast = cast[:castLimit]
	}
	for _, c := range cast {
		d.Actors = append(d.Actors, c.Name)
	}

	if resp.ExternalIDs.ImdbID != "" {
		d.ImdbID = strPtr(resp.ExternalIDs.ImdbID)
	}
	return d
}

// pickLogo prefers the configured language, falls back to English, then the
// first logo available.
func (a *tmdbAdapter) pickLogo(resp *tmdbDetailResponse) string {
	lang := a.language
	if i := strings.Index(lang, "-"); i > 0 {
		lang = lang[:i]
	}

	var english, first string
	for _, l := range resp.Images.Logos {
		if l.FilePath == "" {
			continue
		}
		if l.Language == lang {
			return l.FilePath
		}
		if l.Language == "en" && english == "" {
			english = l.FilePath
		}
		if first == "" {
			first = l.FilePath
		}
	}
	if english != "" {
		return english
	}
	return first
}

func strPtr(s string) *string {
	return &s
}
