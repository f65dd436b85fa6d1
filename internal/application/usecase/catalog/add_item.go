package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/custom-catalogs/adapters/event"
	"github.com/khoahotran/custom-catalogs/internal/domain/catalog"
	"github.com/khoahotran/custom-catalogs/internal/domain/media"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

// AddItemUseCase is the incremental-add path: one item appended after the
// catalog's current maximum position.
type AddItemUseCase struct {
	catalogRepo catalog.Repository
	mediaRepo   media.Repository
	kafkaClient *event.KafkaProducerClient
	logger      logger.Logger
}

func NewAddItemUseCase(cRepo catalog.Repository, mRepo media.Repository, kClient *event.KafkaProducerClient, log logger.Logger) *AddItemUseCase {
	return &AddItemUseCase{
		catalogRepo: cRepo,
		mediaRepo:   mRepo,
		kafkaClient: kClient,
		logger:      log,
	}
}

type AddItemInput struct {
	CatalogID uuid.UUID
	OwnerID   uuid.UUID
	Ref       catalog.Ref
}

func (uc *AddItemUseCase) Execute(ctx context.Context, input AddItemInput) error {
	c, err := uc.catalogRepo.FindByIDAndOwner(ctx, input.CatalogID, input.OwnerID)
	if err != nil {
		return err
	}

	if err := input.Ref.Validate(); err != nil {
		return apperror.NewInvalidInput("item rejected", err)
	}
	if input.Ref.Kind != c.Kind {
		return apperror.NewInvalidInput("item rejected", catalog.ErrKindMismatch)
	}

	stored, err := uc.mediaRepo.Upsert(ctx, &media.Item{
		ID:     uuid.New(),
		TmdbID: input.Ref.TmdbID,
		Kind:   input.Ref.Kind,
		Title:  input.Ref.Title,
		Poster: input.Ref.Poster,
	})
	if err != nil {
		return err
	}

	maxPos, err := uc.catalogRepo.MaxPosition(ctx, c.ID)
	if err != nil {
		return err
	}

	err = uc.catalogRepo.AppendLink(ctx, catalog.Item{
		CatalogID:   c.ID,
		MediaItemID: stored.ID,
		Position:    catalog.NextPosition(maxPos),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	if uc.kafkaClient != nil && stored.NeedsEnrichment() {
		go func() {
			err := uc.kafkaClient.PublishMediaEnrichEvent(context.Background(), event.MediaEnrichPayload{
				MediaItemID: stored.ID,
				TmdbID:      stored.TmdbID,
				Kind:        stored.Kind,
			})
			if err != nil {
				uc.logger.Error("Failed to publish Kafka enrich event", err,
					zap.String("media_item_id", stored.ID.String()))
			}
		}()
	}
	return nil
}
