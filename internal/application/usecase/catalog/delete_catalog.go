package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/custom-catalogs/internal/domain/catalog"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

type DeleteCatalogUseCase struct {
	catalogRepo catalog.Repository
	logger      logger.Logger
}

func NewDeleteCatalogUseCase(repo catalog.Repository, log logger.Logger) *DeleteCatalogUseCase {
	return &DeleteCatalogUseCase{catalogRepo: repo, logger: log}
}

// Execute removes the catalog and its links. Media items are left in place;
// orphans are tolerated since other catalogs may still reference them.
func (uc *DeleteCatalogUseCase) Execute(ctx context.Context, catalogID, ownerID uuid.UUID) error {
	return uc.catalogRepo.Delete(ctx, catalogID, ownerID)
}
