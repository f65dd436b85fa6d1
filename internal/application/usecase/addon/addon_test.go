package addon

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/custom-catalogs/internal/domain/catalog"
	"github.com/khoahotran/custom-catalogs/internal/domain/media"
	"github.com/khoahotran/custom-catalogs/internal/domain/user"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

const testImageBaseURL = "https://image.tmdb.org/t/p"

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*user.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Save(ctx context.Context, u *user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", id.String())
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*user.User, error) {
	users := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

type fakeCatalogRepo struct {
	catalogs map[uuid.UUID]*catalog.Catalog
	entries  map[uuid.UUID][]catalog.Entry
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		catalogs: make(map[uuid.UUID]*catalog.Catalog),
		entries:  make(map[uuid.UUID][]catalog.Entry),
	}
}

func (r *fakeCatalogRepo) Save(ctx context.Context, c *catalog.Catalog) error {
	r.catalogs[c.ID] = c
	return nil
}

func (r *fakeCatalogRepo) Rename(ctx context.Context, id, ownerID uuid.UUID, name string) error {
	c, err := r.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}
	c.Name = name
	return nil
}

func (r *fakeCatalogRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if _, err := r.FindByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}
	delete(r.catalogs, id)
	delete(r.entries, id)
	return nil
}

func (r *fakeCatalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Catalog, error) {
	if c, ok := r.catalogs[id]; ok {
		return c, nil
	}
	return nil, apperror.NewNotFound("catalog", id.String())
}

func (r *fakeCatalogRepo) FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*catalog.Catalog, error) {
	c, ok := r.catalogs[id]
	if !ok || c.OwnerID != ownerID {
		return nil, apperror.NewNotFound("catalog", id.String())
	}
	return c, nil
}

func (r *fakeCatalogRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*catalog.Catalog, error) {
	result := make([]*catalog.Catalog, 0)
	for _, c := range r.catalogs {
		if c.OwnerID == ownerID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *fakeCatalogRepo) ListEntries(ctx context.Context, catalogID uuid.UUID) ([]catalog.Entry, error) {
	return r.entries[catalogID], nil
}

func (r *fakeCatalogRepo) MaxPosition(ctx context.Context, catalogID uuid.UUID) (int, error) {
	return len(r.entries[catalogID]) - 1, nil
}

func (r *fakeCatalogRepo) ReplaceLinks(ctx context.Context, catalogID uuid.UUID, links []catalog.Item) error {
	return nil
}

func (r *fakeCatalogRepo) AppendLink(ctx context.Context, link catalog.Item) error {
	return nil
}

func testLogger() logger.Logger {
	return logger.NewZapLogger("development")
}

func strPtr(s string) *string { return &s }

func Test_Manifest_UnknownUserPropagatesNotFound(t *testing.T) {
	uc := NewManifestUseCase(newFakeUserRepo(), newFakeCatalogRepo(), testLogger())

	_, err := uc.Execute(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func Test_Manifest_OneDescriptorPerCatalog(t *testing.T) {
	owner := &user.User{ID: uuid.New(), Email: "owner@example.com"}
	catalogRepo := newFakeCatalogRepo()
	movieCat := &catalog.Catalog{ID: uuid.New(), OwnerID: owner.ID, Name: "Favourites", Kind: media.KindMovie}
	seriesCat := &catalog.Catalog{ID: uuid.New(), OwnerID: owner.ID, Name: "Binge List", Kind: media.KindSeries}
	catalogRepo.Save(context.Background(), movieCat)
	catalogRepo.Save(context.Background(), seriesCat)

	uc := NewManifestUseCase(newFakeUserRepo(owner), catalogRepo, testLogger())
	manifest, err := uc.Execute(context.Background(), owner.ID)

	assert.NoError(t, err)
	assert.Equal(t, "com.customcatalogs."+owner.ID.String(), manifest.ID)
	assert.Equal(t, []string{"catalog"}, manifest.Resources)
	assert.ElementsMatch(t, []string{"movie", "series"}, manifest.Types)
	assert.Len(t, manifest.Catalogs, 2)

	byID := make(map[string]ManifestCatalog)
	for _, mc := range manifest.Catalogs {
		byID[mc.ID] = mc
	}
	movieDesc := byID["cat_"+movieCat.ID.String()]
	assert.Equal(t, "movie", movieDesc.Type)
	assert.Equal(t, "Favourites", movieDesc.Name)
	assert.Equal(t, []ManifestExtra{{Name: "search", IsRequired: false}}, movieDesc.Extra)

	seriesDesc := byID["cat_"+seriesCat.ID.String()]
	assert.Equal(t, "series", seriesDesc.Type)
}

func Test_Manifest_NoCatalogsYieldsEmptyDescriptorList(t *testing.T) {
	owner := &user.User{ID: uuid.New(), Email: "owner@example.com"}
	uc := NewManifestUseCase(newFakeUserRepo(owner), newFakeCatalogRepo(), testLogger())

	manifest, err := uc.Execute(context.Background(), owner.ID)
	assert.NoError(t, err)
	assert.NotNil(t, manifest.Catalogs)
	assert.Empty(t, manifest.Catalogs)
}

func listingInput(userID uuid.UUID, kind, rawID string) ListingInput {
	return ListingInput{UserID: userID, Kind: kind, CatalogID: rawID}
}

func Test_Listing_UnknownCatalogYieldsEmptyMetas(t *testing.T) {
	uc := NewListingUseCase(newFakeCatalogRepo(), testImageBaseURL, testLogger())

	listing, err := uc.Execute(context.Background(),
		listingInput(uuid.New(), "movie", "cat_"+uuid.New().String()+".json"))

	assert.NoError(t, err)
	assert.NotNil(t, listing.Metas)
	assert.Empty(t, listing.Metas)
}

func Test_Listing_MalformedRequestYieldsEmptyMetas(t *testing.T) {
	uc := NewListingUseCase(newFakeCatalogRepo(), testImageBaseURL, testLogger())

	badKind, err := uc.Execute(context.Background(), listingInput(uuid.New(), "tv", "cat_"+uuid.New().String()))
	assert.NoError(t, err)
	assert.Empty(t, badKind.Metas)

	badID, err := uc.Execute(context.Background(), listingInput(uuid.New(), "movie", "not-a-catalog"))
	assert.NoError(t, err)
	assert.Empty(t, badID.Metas)
}

func Test_Listing_ForeignCatalogYieldsEmptyMetas(t *testing.T) {
	ownerID := uuid.New()
	catalogRepo := newFakeCatalogRepo()
	c := &catalog.Catalog{ID: uuid.New(), OwnerID: ownerID, Name: "Favourites", Kind: media.KindMovie}
	catalogRepo.Save(context.Background(), c)

	uc := NewListingUseCase(catalogRepo, testImageBaseURL, testLogger())
	listing, err := uc.Execute(context.Background(),
		listingInput(uuid.New(), "movie", "cat_"+c.ID.String()))

	assert.NoError(t, err)
	assert.Empty(t, listing.Metas)
}

func Test_Listing_PreservesPositionOrder(t *testing.T) {
	ownerID := uuid.New()
	catalogRepo := newFakeCatalogRepo()
	c := &catalog.Catalog{ID: uuid.New(), OwnerID: ownerID, Name: "Favourites", Kind: media.KindMovie}
	catalogRepo.Save(context.Background(), c)
	catalogRepo.entries[c.ID] = []catalog.Entry{
		{Position: 0, Media: media.Item{ID: uuid.New(), TmdbID: "300", Kind: media.KindMovie, Title: "Third pick"}},
		{Position: 1, Media: media.Item{ID: uuid.New(), TmdbID: "100", Kind: media.KindMovie, Title: "First pick"}},
		{Position: 2, Media: media.Item{ID: uuid.New(), TmdbID: "200", Kind: media.KindMovie, Title: "Second pick"}},
	}

	uc := NewListingUseCase(catalogRepo, testImageBaseURL, testLogger())
	listing, err := uc.Execute(context.Background(),
		listingInput(ownerID, "movie", "cat_"+c.ID.String()+".json"))

	assert.NoError(t, err)
	assert.Len(t, listing.Metas, 3)
	assert.Equal(t, "tmdb:300", listing.Metas[0].ID)
	assert.Equal(t, "tmdb:100", listing.Metas[1].ID)
	assert.Equal(t, "tmdb:200", listing.Metas[2].ID)
}

func Test_Listing_FiltersMismatchedKind(t *testing.T) {
	ownerID := uuid.New()
	catalogRepo := newFakeCatalogRepo()
	c := &catalog.Catalog{ID: uuid.New(), OwnerID: ownerID, Name: "Favourites", Kind: media.KindMovie}
	catalogRepo.Save(context.Background(), c)
	catalogRepo.entries[c.ID] = []catalog.Entry{
		{Position: 0, Media: media.Item{ID: uuid.New(), TmdbID: "100", Kind: media.KindMovie, Title: "Kept"}},
		{Position: 1, Media: media.Item{ID: uuid.New(), TmdbID: "200", Kind: media.KindSeries, Title: "Dropped"}},
	}

	uc := NewListingUseCase(catalogRepo, testImageBaseURL, testLogger())
	listing, err := uc.Execute(context.Background(),
		listingInput(ownerID, "movie", "cat_"+c.ID.String()))

	assert.NoError(t, err)
	assert.Len(t, listing.Metas, 1)
	assert.Equal(t, "tmdb:100", listing.Metas[0].ID)
}

func Test_BuildMeta_MinimalItemOmitsOptionalFields(t *testing.T) {
	item := media.Item{TmdbID: "550", Kind: media.KindMovie, Title: "Fight Club"}

	m := buildMeta(item, testImageBaseURL)

	assert.Equal(t, "tmdb:550", m.ID)
	assert.Equal(t, "movie", m.Type)
	assert.Equal(t, "Fight Club", m.Name)
	assert.Empty(t, m.Poster)
	assert.Empty(t, m.Description)
	assert.Empty(t, m.Genres)
	assert.Empty(t, m.Released)
	assert.Empty(t, m.Links)
}

func Test_BuildMeta_PosterUsesCDNSizeVariant(t *testing.T) {
	item := media.Item{TmdbID: "550", Kind: media.KindMovie, Title: "Fight Club", Poster: strPtr("/poster.jpg")}

	m := buildMeta(item, testImageBaseURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", m.Poster)
}

func Test_BuildMeta_ReleaseDateFormats(t *testing.T) {
	item := media.Item{TmdbID: "550", Kind: media.KindMovie, Title: "Fight Club", ReleaseDate: strPtr("1999-10-15")}

	m := buildMeta(item, testImageBaseURL)
	assert.Equal(t, "1999-10-15", m.ReleaseInfo)
	assert.Equal(t, "1999-10-15T00:00:00Z", m.Released)
}

func Test_BuildMeta_LastVideosDateIsSeriesOnly(t *testing.T) {
	date := strPtr("2024-05-01")

	movie := media.Item{TmdbID: "1", Kind: media.KindMovie, Title: "A movie", LastEpisodeDate: date}
	assert.Empty(t, buildMeta(movie, testImageBaseURL).LastVideosDate)

	series := media.Item{TmdbID: "2", Kind: media.KindSeries, Title: "A series", LastEpisodeDate: date}
	assert.Equal(t, "2024-05-01", buildMeta(series, testImageBaseURL).LastVideosDate)
}

func Test_BuildMeta_ImdbLinkRequiresIDAndRating(t *testing.T) {
	base := media.Item{TmdbID: "550", Kind: media.KindMovie, Title: "Fight Club"}

	idOnly := base
	idOnly.ImdbID = strPtr("tt0137523")
	assert.Empty(t, buildMeta(idOnly, testImageBaseURL).Links)

	ratingOnly := base
	ratingOnly.ImdbRating = strPtr("8.8")
	assert.Empty(t, buildMeta(ratingOnly, testImageBaseURL).Links)

	both := base
	both.ImdbID = strPtr("tt0137523")
	both.ImdbRating = strPtr("8.8")
	links := buildMeta(both, testImageBaseURL).Links
	assert.Len(t, links, 1)
	assert.Equal(t, "8.8", links[0].Name)
	assert.Equal(t, "imdb", links[0].Category)
	assert.Equal(t, "https://imdb.com/title/tt0137523", links[0].URL)
}

func Test_BuildMeta_CastAndDirectorLinks(t *testing.T) {
	item := media.Item{
		TmdbID:    "550",
		Kind:      media.KindMovie,
		Title:     "Fight Club",
		Actors:    strPtr("Brad Pitt#Edward Norton"),
		Directors: strPtr("David Fincher"),
	}

	m := buildMeta(item, testImageBaseURL)

	assert.Equal(t, []string{"Brad Pitt", "Edward Norton"}, m.Cast)
	assert.Equal(t, []string{"David Fincher"}, m.Director)
	assert.Len(t, m.Links, 3)
	assert.Equal(t, "Cast", m.Links[0].Category)
	assert.Equal(t, "stremio:///search?search=Brad+Pitt", m.Links[0].URL)
	assert.Equal(t, "Directors", m.Links[2].Category)
	assert.Equal(t, "David Fincher", m.Links[2].Name)
}
