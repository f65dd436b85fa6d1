package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/custom-catalogs/internal/domain/catalog"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

type ListCatalogsUseCase struct {
	catalogRepo catalog.Repository
	logger      logger.Logger
}

func NewListCatalogsUseCase(repo catalog.Repository, log logger.Logger) *ListCatalogsUseCase {
	return &ListCatalogsUseCase{catalogRepo: repo, logger: log}
}

// CatalogWithEntries pairs a catalog with its ordered membership, the shape
// the dashboard renders.
type CatalogWithEntries struct {
	Catalog *catalog.Catalog
	Entries []catalog.Entry
}

func (uc *ListCatalogsUseCase) Execute(ctx context.Context, ownerID uuid.UUID) ([]CatalogWithEntries, error) {
	catalogs, err := uc.catalogRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result := make([]CatalogWithEntries, 0, len(catalogs))
	for _, c := range catalogs {
		entries, err := uc.catalogRepo.ListEntries(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, CatalogWithEntries{Catalog: c, Entries: entries})
	}
	return result, nil
}
