package enrich

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/khoahotran/custom-catalogs/adapters/event"
	"github.com/khoahotran/custom-catalogs/internal/application/service"
	"github.com/khoahotran/custom-catalogs/internal/domain/media"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
)

// EnrichMediaUseCase runs on the worker: fetch TMDB details for one item and
// persist the enrichment fields. Identity and link-time fields are never
// touched.
type EnrichMediaUseCase struct {
	mediaRepo media.Repository
	provider  service.MetadataProvider
}

func NewEnrichMediaUseCase(mRepo media.Repository, provider service.MetadataProvider) *EnrichMediaUseCase {
	return &EnrichMediaUseCase{mediaRepo: mRepo, provider: provider}
}

func (uc *EnrichMediaUseCase) Execute(ctx context.Context, payload event.MediaEnrichPayload) error {
	item, err := uc.mediaRepo.FindByID(ctx, payload.MediaItemID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			log.Printf("WARN: Media item %s not found, skip.", payload.MediaItemID)
			return nil
		}
		return fmt.Errorf("get media item failed: %w", err)
	}

	if !item.NeedsEnrichment() {
		log.Printf("INFO: Media item %s already enriched, skip.", item.ID)
		return nil
	}

	details, err := uc.provider.Details(ctx, item.TmdbID, item.Kind)
	if err != nil {
		return fmt.Errorf("fetch details for %s/%s failed: %w", item.TmdbID, item.Kind, err)
	}

	applyDetails(item, details)

	if err := uc.mediaRepo.UpdateEnrichment(ctx, item); err != nil {
		return fmt.Errorf("update media item %s failed: %w", item.ID, err)
	}

	log.Printf("Enriched media item %s (%s/%s).", item.ID, item.TmdbID, item.Kind)
	return nil
}

func applyDetails(item *media.Item, d *service.Details) {
	item.Genres = d.Genres
	item.Description = d.Description
	item.Rating = d.Rating
	item.ImdbRating = d.ImdbRating
	item.Runtime = d.Runtime
	item.ReleaseDate = d.ReleaseDate
	item.LastEpisodeDate = d.LastEpisodeDate
	item.Background = d.Background
	item.Logo = d.Logo
	item.ImdbID = d.ImdbID

	if len(d.Actors) > 0 {
		joined := media.JoinNames(d.Actors)
		item.Actors = &joined
	}
	if len(d.Directors) > 0 {
		joined := media.JoinNames(d.Directors)
		item.Directors = &joined
	}
}
