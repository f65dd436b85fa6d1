package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/custom-catalogs/internal/domain/catalog"
	"github.com/khoahotran/custom-catalogs/internal/domain/media"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

type CreateCatalogUseCase struct {
	catalogRepo catalog.Repository
	logger      logger.Logger
}

func NewCreateCatalogUseCase(repo catalog.Repository, log logger.Logger) *CreateCatalogUseCase {
	return &CreateCatalogUseCase{catalogRepo: repo, logger: log}
}

type CreateCatalogInput struct {
	OwnerID uuid.UUID
	Name    string
	Kind    string
}

func (uc *CreateCatalogUseCase) Execute(ctx context.Context, input CreateCatalogInput) (*catalog.Catalog, error) {
	// Kind is mandatory; there is no "movie" fallback and no mixed catalogs.
	kind, err := media.ParseKind(input.Kind)
	if err != nil {
		return nil, apperror.NewInvalidInput("catalog kind is invalid", err)
	}

	now := time.Now().UTC()
	c := &catalog.Catalog{
		ID:        uuid.New(),
		OwnerID:   input.OwnerID,
		Name:      input.Name,
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("catalog validation failed", err)
	}
	if err := uc.catalogRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
