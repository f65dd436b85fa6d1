package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/custom-catalogs/adapters/event"
	"github.com/khoahotran/custom-catalogs/internal/domain/catalog"
	"github.com/khoahotran/custom-catalogs/internal/domain/media"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

var tracer = otel.Tracer("catalog_usecase")

// UpdateCatalogUseCase covers the "save catalog" path: an optional rename
// plus an optional full membership replace. The replace upserts every
// referenced media item by natural key first, then swaps all links in one
// transaction so a failure leaves the prior membership intact.
type UpdateCatalogUseCase struct {
	catalogRepo catalog.Repository
	mediaRepo   media.Repository
	kafkaClient *event.KafkaProducerClient
	logger      logger.Logger
}

func NewUpdateCatalogUseCase(cRepo catalog.Repository, mRepo media.Repository, kClient *event.KafkaProducerClient, log logger.Logger) *UpdateCatalogUseCase {
	return &UpdateCatalogUseCase{
		catalogRepo: cRepo,
		mediaRepo:   mRepo,
		kafkaClient: kClient,
		logger:      log,
	}
}

type UpdateCatalogInput struct {
	CatalogID uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	// Items nil means "leave membership alone"; an empty non-nil slice is a
	// valid replace that clears the catalog.
	Items []catalog.Ref
}

type UpdateCatalogOutput struct {
	Catalog *catalog.Catalog
	Entries []catalog.Entry
}

func (uc *UpdateCatalogUseCase) Execute(ctx context.Context, input UpdateCatalogInput) (*UpdateCatalogOutput, error) {
	ctx, span := tracer.Start(ctx, "UpdateCatalog")
	defer span.End()

	c, err := uc.catalogRepo.FindByIDAndOwner(ctx, input.CatalogID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" && input.Name != c.Name {
		if err := uc.catalogRepo.Rename(ctx, c.ID, input.OwnerID, input.Name); err != nil {
			return nil, err
		}
		c.Name = input.Name
	}

	if input.Items != nil {
		if err := uc.replaceMembership(ctx, c, input.Items); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	entries, err := uc.catalogRepo.ListEntries(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &UpdateCatalogOutput{Catalog: c, Entries: entries}, nil
}

func (uc *UpdateCatalogUseCase) replaceMembership(ctx context.Context, c *catalog.Catalog, refs []catalog.Ref) error {
	if err := catalog.ValidateRefs(c.Kind, refs); err != nil {
		return apperror.NewInvalidInput("catalog items rejected", err)
	}

	// Pass one: every referenced item exists exactly once.
	mediaIDs := make([]uuid.UUID, len(refs))
	var toEnrich []*media.Item
	for i, ref := range refs {
		stored, err := uc.mediaRepo.Upsert(ctx, &media.Item{
			ID:     uuid.New(),
			TmdbID: ref.TmdbID,
			Kind:   ref.Kind,
			Title:  ref.Title,
			Poster: ref.Poster,
		})
		if err != nil {
			return err
		}
		mediaIDs[i] = stored.ID
		if stored.NeedsEnrichment() {
			toEnrich = append(toEnrich, stored)
		}
	}

	// Pass two: swap all links atomically in input order.
	links := catalog.ResolveReplace(c.ID, mediaIDs, time.Now().UTC())
	if err := uc.catalogRepo.ReplaceLinks(ctx, c.ID, links); err != nil {
		return err
	}

	uc.publishEnrichEvents(toEnrich)
	return nil
}

// publishEnrichEvents hands bare items to the worker after the commit;
// a publish failure only costs enrichment, never the save.
func (uc *UpdateCatalogUseCase) publishEnrichEvents(items []*media.Item) {
	if uc.kafkaClient == nil || len(items) == 0 {
		return
	}
	go func() {
		for _, item := range items {
			err := uc.kafkaClient.PublishMediaEnrichEvent(context.Background(), event.MediaEnrichPayload{
				MediaItemID: item.ID,
				TmdbID:      item.TmdbID,
				Kind:        item.Kind,
			})
			if err != nil {
				uc.logger.Error("Failed to publish Kafka enrich event", err,
					zap.String("media_item_id", item.ID.String()))
			}
		}
	}()
}
