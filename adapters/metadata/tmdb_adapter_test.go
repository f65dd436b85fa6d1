package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/custom-catalogs/internal/config"
	"github.com/khoahotran/custom-catalogs/internal/domain/media"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

func testAdapter(t *testing.T, handler http.HandlerFunc) (*tmdbAdapter, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Config{}
	cfg.TMDB.APIKey = "test-key"
	cfg.TMDB.BaseURL = server.URL
	cfg.TMDB.Language = "es-ES"

	provider, err := NewTMDBAdapter(cfg, logger.NewZapLogger("development"))
	assert.NoError(t, err)
	return provider.(*tmdbAdapter), server
}

func Test_NewTMDBAdapter_RequiresAPIKey(t *testing.T) {
	_, err := NewTMDBAdapter(config.Config{}, logger.NewZapLogger("development"))
	assert.Error(t, err)
}

func Test_Search_DefaultsToMultiAndSendsCredentials(t *testing.T) {
	var gotPath, gotQuery, gotKey, gotLang string
	adapter, _ := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		gotKey = r.URL.Query().Get("api_key")
		gotLang = r.URL.Query().Get("language")
		fmt.Fprint(w, `{"results":[]}`)
	})

	body, err := adapter.Search(context.Background(), "fight club", "")

	assert.NoError(t, err)
	assert.JSONEq(t, `{"results":[]}`, string(body))
	assert.Equal(t, "/search/multi", gotPath)
	assert.Equal(t, "fight club", gotQuery)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "es-ES", gotLang)
}

func Test_Discover_DropsEmptyParams(t *testing.T) {
	var gotPath string
	var gotGenre, gotYear []string
	adapter, _ := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotGenre = r.URL.Query()["with_genres"]
		gotYear = r.URL.Query()["year"]
		fmt.Fprint(w, `{"results":[]}`)
	})

	_, err := adapter.Discover(context.Background(), "series", map[string]string{
		"with_genres": "18",
		"year":        "",
	})

	assert.NoError(t, err)
	assert.Equal(t, "/discover/series", gotPath)
	assert.Equal(t, []string{"18"}, gotGenre)
	assert.Empty(t, gotYear)
}

func Test_Get_Non2xxIsUpstreamError(t *testing.T) {
	adapter, _ := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := adapter.Search(context.Background(), "nothing", "movie")
	assert.ErrorIs(t, err, apperror.ErrUpstream)
}

func Test_Details_Movie(t *testing.T) {
	var gotPath, gotAppend string
	adapter, _ := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAppend = r.URL.Query().Get("append_to_response")
		fmt.Fprint(w, `{
			"genres": [{"name": "Drama"}, {"name": "Thriller"}],
			"overview": "An insomniac and a soap maker.",
			"vote_average": 8.43,
			"runtime": 139,
			"release_date": "1999-10-15",
			"backdrop_path": "/backdrop.jpg",
			"credits": {
				"cast": [{"name": "Brad Pitt"}, {"name": "Edward Norton"}],
				"crew": [
					{"name": "David Fincher", "job": "Director"},
					{"name": "Jim Uhls", "job": "Screenplay"}
				]
			},
			"external_ids": {"imdb_id": "tt0137523"},
			"images": {"logos": [{"file_path": "/logo-en.png", "iso_639_1": "en"}]}
		}`)
	})

	d, err := adapter.Details(context.Background(), "550", media.KindMovie)

	assert.NoError(t, err)
	assert.Equal(t, "/movie/550", gotPath)
	assert.Equal(t, "credits,external_ids,images", gotAppend)
	assert.Equal(t, []string{"Drama", "Thriller"}, d.Genres)
	assert.Equal(t, "An insomniac and a soap maker.", *d.Description)
	assert.Equal(t, "8.4", *d.ImdbRating)
	assert.Equal(t, "2h 19min", *d.Runtime)
	assert.Equal(t, "1999-10-15", *d.ReleaseDate)
	assert.Equal(t, "https://image.tmdb.org/t/p/original/backdrop.jpg", *d.Background)
	assert.Equal(t, "https://image.tmdb.org/t/p/original/logo-en.png", *d.Logo)
	assert.Equal(t, []string{"Brad Pitt", "Edward Norton"}, d.Actors)
	assert.Equal(t, []string{"David Fincher"}, d.Directors)
	assert.Equal(t, "tt0137523", *d.ImdbID)
	assert.Nil(t, d.LastEpisodeDate)
}

func Test_Details_Series(t *testing.T) {
	var gotPath string
	adapter, _ := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{
			"genres": [{"name": "Crime"}],
			"overview": "A chemistry teacher breaks bad.",
			"vote_average": 8.9,
			"episode_run_time": [47],
			"first_air_date": "2008-01-20",
			"last_air_date": "2013-09-29",
			"created_by": [{"name": "Vince Gilligan"}],
			"last_episode_to_air": {"air_date": "2013-09-29"},
			"credits": {"cast": [], "crew": []},
			"external_ids": {"imdb_id": "tt0903747"},
			"images": {"logos": []}
		}`)
	})

	d, err := adapter.Details(context.Background(), "1396", media.KindSeries)

	assert.NoError(t, err)
	assert.Equal(t, "/tv/1396", gotPath)
	assert.Equal(t, "47min", *d.Runtime)
	assert.Equal(t, "2008-01-20", *d.ReleaseDate)
	assert.Equal(t, "2013-09-29", *d.LastEpisodeDate)
	assert.Equal(t, []string{"Vince Gilligan"}, d.Directors)
}

func Test_Details_CastIsCapped(t *testing.T) {
	cast := ""
	for i := 0; i < 15; i++ {
		if i > 0 {
			cast += ","
		}
		cast += fmt.Sprintf(`{"name": "Actor %d"}`, i)
	}
	adapter, _ := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"credits": {"cast": [%s], "crew": []}}`, cast)
	})

	d, err := adapter.Details(context.Background(), "550", media.KindMovie)

	assert.NoError(t, err)
	assert.Len(t, d.Actors, castLimit)
	assert.Equal(t, "Actor 0", d.Actors[0])
}

func Test_PickLogo_LanguagePreference(t *testing.T) {
	adapter, _ := testAdapter(t, func(w http.ResponseWriter, r *http.Request) {})

	configured := &tmdbDetailResponse{}
	configured.Images.Logos = []struct {
		FilePath string `json:"file_path"`
		Language string `json:"iso_639_1"`
	}{
		{FilePath: "/ja.png", Language: "ja"},
		{FilePath: "/en.png", Language: "en"},
		{FilePath: "/es.png", Language: "es"},
	}
	assert.Equal(t, "/es.png", adapter.pickLogo(configured))

	noConfigured := &tmdbDetailResponse{}
	noConfigured.Images.Logos = configured.Images.Logos[:2]
	assert.Equal(t, "/en.png", adapter.pickLogo(noConfigured))

	firstOnly := &tmdbDetailResponse{}
	firstOnly.Images.Logos = configured.Images.Logos[:1]
	assert.Equal(t, "/ja.png", adapter.pickLogo(firstOnly))

	assert.Equal(t, "", adapter.pickLogo(&tmdbDetailResponse{}))
}
