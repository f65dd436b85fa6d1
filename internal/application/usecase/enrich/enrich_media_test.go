package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/custom-catalogs/adapters/event"
	"github.com/khoahotran/custom-catalogs/internal/application/service"
	"github.com/khoahotran/custom-catalogs/internal/domain/media"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
)

type fakeMediaRepo struct {
	items        map[uuid.UUID]*media.Item
	updatedItems []*media.Item
}

func newFakeMediaRepo(items ...*media.Item) *fakeMediaRepo {
	repo := &fakeMediaRepo{items: make(map[uuid.UUID]*media.Item)}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *fakeMediaRepo) Upsert(ctx context.Context, item *media.Item) (*media.Item, error) {
	r.items[item.ID] = item
	return item, nil
}

func (r *fakeMediaRepo) GetOrCreate(ctx context.Context, item *media.Item) (*media.Item, error) {
	return r.Upsert(ctx, item)
}

func (r *fakeMediaRepo) FindByID(ctx context.Context, id uuid.UUID) (*media.Item, error) {
	if item, ok := r.items[id]; ok {
		return item, nil
	}
	return nil, apperror.NewNotFound("media item", id.String())
}

func (r *fakeMediaRepo) FindByNaturalKey(ctx context.Context, tmdbID string, kind media.Kind) (*media.Item, error) {
	for _, item := range r.items {
		if item.TmdbID == tmdbID && item.Kind == kind {
			return item, nil
		}
	}
	return nil, apperror.NewNotFound("media item", tmdbID)
}

func (r *fakeMediaRepo) UpdateEnrichment(ctx context.Context, item *media.Item) error {
	r.updatedItems = append(r.updatedItems, item)
	return nil
}

type fakeProvider struct {
	details *service.Details
	err     error
	calls   int
}

func (p *fakeProvider) Search(ctx context.Context, query, mediaType string) (json.RawMessage, error) {
	return nil, nil
}

func (p *fakeProvider) Discover(ctx context.Context, mediaType string, params map[string]string) (json.RawMessage, error) {
	return nil, nil
}

func (p *fakeProvider) Details(ctx context.Context, tmdbID string, kind media.Kind) (*service.Details, error) {
	p.calls++
	return p.details, p.err
}

func strPtr(s string) *string { return &s }

func Test_EnrichMedia_PersistsFetchedDetails(t *testing.T) {
	item := &media.Item{ID: uuid.New(), TmdbID: "550", Kind: media.KindMovie, Title: "Fight Club"}
	repo := newFakeMediaRepo(item)
	rating := 8.4
	provider := &fakeProvider{details: &service.Details{
		Genres:      []string{"Drama"},
		Description: strPtr("An insomniac and a soap maker."),
		Rating:      &rating,
		Actors:      []string{"Brad Pitt", "Edward Norton"},
		Directors:   []string{"David Fincher"},
	}}

	uc := NewEnrichMediaUseCase(repo, provider)
	err := uc.Execute(context.Background(), event.MediaEnrichPayload{
		MediaItemID: item.ID, TmdbID: item.TmdbID, Kind: item.Kind,
	})

	assert.NoError(t, err)
	assert.Len(t, repo.updatedItems, 1)
	updated := repo.updatedItems[0]
	assert.Equal(t, []string{"Drama"}, updated.Genres)
	assert.Equal(t, "Brad Pitt#Edward Norton", *updated.Actors)
	assert.Equal(t, "David Fincher", *updated.Directors)
	assert.False(t, updated.NeedsEnrichment())
}

func Test_EnrichMedia_MissingItemIsSkippedSilently(t *testing.T) {
	repo := newFakeMediaRepo()
	provider := &fakeProvider{}

	uc := NewEnrichMediaUseCase(repo, provider)
	err := uc.Execute(context.Background(), event.MediaEnrichPayload{MediaItemID: uuid.New()})

	assert.NoError(t, err)
	assert.Zero(t, provider.calls)
}

func Test_EnrichMedia_AlreadyEnrichedIsSkipped(t *testing.T) {
	item := &media.Item{
		ID: uuid.New(), TmdbID: "550", Kind: media.KindMovie, Title: "Fight Club",
		Description: strPtr("Already there."),
	}
	repo := newFakeMediaRepo(item)
	provider := &fakeProvider{}

	uc := NewEnrichMediaUseCase(repo, provider)
	err := uc.Execute(context.Background(), event.MediaEnrichPayload{MediaItemID: item.ID})

	assert.NoError(t, err)
	assert.Zero(t, provider.calls)
	assert.Empty(t, repo.updatedItems)
}

func Test_EnrichMedia_UpstreamFailureIsRetriable(t *testing.T) {
	item := &media.Item{ID: uuid.New(), TmdbID: "550", Kind: media.KindMovie, Title: "Fight Club"}
	repo := newFakeMediaRepo(item)
	provider := &fakeProvider{err: errors.New("upstream down")}

	uc := NewEnrichMediaUseCase(repo, provider)
	err := uc.Execute(context.Background(), event.MediaEnrichPayload{MediaItemID: item.ID})

	assert.Error(t, err)
	assert.Empty(t, repo.updatedItems)
}
