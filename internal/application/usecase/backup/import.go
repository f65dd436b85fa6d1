package backup

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/custom-catalogs/internal/domain/catalog"
	"github.com/khoahotran/custom-catalogs/internal/domain/media"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

// ImportUseCase restores a backup document additively: every incoming
// catalog becomes a fresh catalog owned by the target user, items are
// resolved by natural key and linked in document order. A bad record is
// skipped and counted, never fatal; existing catalogs are never touched.
type ImportUseCase struct {
	catalogRepo catalog.Repository
	mediaRepo   media.Repository
	logger      logger.Logger
}

func NewImportUseCase(cRepo catalog.Repository, mRepo media.Repository, log logger.Logger) *ImportUseCase {
	return &ImportUseCase{
		catalogRepo: cRepo,
		mediaRepo:   mRepo,
		logger:      log,
	}
}

type ImportSummary struct {
	CatalogsCreated int `json:"catalogs_created"`
	CatalogsSkipped int `json:"catalogs_skipped"`
	ItemsLinked     int `json:"items_linked"`
	ItemsSkipped    int `json:"items_skipped"`
}

func (uc *ImportUseCase) Execute(ctx context.Context, ownerID uuid.UUID, doc *Document) (*ImportSummary, error) {
	if doc == nil || doc.Catalogs == nil {
		return nil, apperror.NewInvalidInput("import document has no catalogs", nil)
	}

	summary := &ImportSummary{}
	for _, backup := range doc.Catalogs {
		kind, err := media.ParseKind(backup.Type)
		if err != nil {
			uc.logger.Warn("Skipping catalog with invalid kind",
				zap.String("name", backup.Name), zap.String("kind", backup.Type))
			summary.CatalogsSkipped++
			continue
		}

		now := time.Now().UTC()
		c := &catalog.Catalog{
			ID:        uuid.New(),
			OwnerID:   ownerID,
			Name:      backup.Name,
			Kind:      kind,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := c.Validate(); err != nil {
			uc.logger.Warn("Skipping invalid catalog", zap.String("name", backup.Name), zap.Error(err))
			summary.CatalogsSkipped++
			continue
		}
		if err := uc.catalogRepo.Save(ctx, c); err != nil {
			return nil, err
		}
		summary.CatalogsCreated++

		if err := uc.importItems(ctx, c, backup.Items, summary); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

func (uc *ImportUseCase) importItems(ctx context.Context, c *catalog.Catalog, items []ItemBackup, summary *ImportSummary) error {
	// The catalog is brand new, so positions start at 0 and grow with each
	// successful link (the resolver's incremental-add rule).
	position := 0
	seen := make(map[string]struct{}, len(items))

	for _, backup := range items {
		ref := catalog.Ref{
			TmdbID: backup.TmdbID,
			Kind:   media.Kind(backup.Type),
			Title:  backup.Title,
			Poster: backup.Poster,
		}
		if err := ref.Validate(); err != nil {
			uc.logItemSkip(c, backup, err)
			summary.ItemsSkipped++
			continue
		}
		if ref.Kind != c.Kind {
			uc.logItemSkip(c, backup, catalog.ErrKindMismatch)
			summary.ItemsSkipped++
			continue
		}
		key := media.NaturalKey(ref.TmdbID, ref.Kind)
		if _, dup := seen[key]; dup {
			uc.logItemSkip(c, backup, catalog.ErrDuplicateRef)
			summary.ItemsSkipped++
			continue
		}
		seen[key] = struct{}{}

		stored, err := uc.mediaRepo.GetOrCreate(ctx, &media.Item{
			ID:     uuid.New(),
			TmdbID: ref.TmdbID,
			Kind:   ref.Kind,
			Title:  ref.Title,
			Poster: ref.Poster,
		})
		if err != nil {
			return err
		}

		err = uc.catalogRepo.AppendLink(ctx, catalog.Item{
			CatalogID:   c.ID,
			MediaItemID: stored.ID,
			Position:    position,
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		position = catalog.NextPosition(position)
		summary.ItemsLinked++
	}
	return nil
}

func (uc *ImportUseCase) logItemSkip(c *catalog.Catalog, backup ItemBackup, err error) {
	uc.logger.Warn("Skipping invalid import item",
		zap.String("catalog", c.Name),
		zap.String("tmdb_id", backup.TmdbID),
		zap.Error(err))
}
