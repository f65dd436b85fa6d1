package addon

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/custom-catalogs/internal/domain/catalog"
	"github.com/khoahotran/custom-catalogs/internal/domain/media"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

// Listing is the per-catalog document the client polls. The addon protocol
// expects unknown catalogs to yield empty results, so Metas is always
// non-nil and the use case never fails for a missing or foreign catalog.
type Listing struct {
	Metas []Meta `json:"metas"`
}

type ListingUseCase struct {
	catalogRepo  catalog.Repository
	imageBaseURL string
	logger       logger.Logger
}

func NewListingUseCase(cRepo catalog.Repository, imageBaseURL string, log logger.Logger) *ListingUseCase {
	return &ListingUseCase{
		catalogRepo:  cRepo,
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
		logger:       log,
	}
}

type ListingInput struct {
	UserID uuid.UUID
	// Kind is the type segment of the request path.
	Kind string
	// CatalogID is the raw id segment, "cat_<uuid>" with an optional ".json"
	// suffix left by the client.
	CatalogID string
}

func (uc *ListingUseCase) Execute(ctx context.Context, input ListingInput) (*Listing, error) {
	ctx, span := tracer.Start(ctx, "Listing")
	defer span.End()

	empty := &Listing{Metas: []Meta{}}

	requestedKind, err := media.ParseKind(input.Kind)
	if err != nil {
		return empty, nil
	}
	catalogID, ok := parseCatalogID(input.CatalogID)
	if !ok {
		return empty, nil
	}

	c, err := uc.catalogRepo.FindByID(ctx, catalogID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return empty, nil
		}
		span.RecordError(err)
		return nil, err
	}
	// Foreign catalogs are indistinguishable from missing ones on purpose.
	if c.OwnerID != input.UserID {
		return empty, nil
	}

	entries, err := uc.catalogRepo.ListEntries(ctx, c.ID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	metas := make([]Meta, 0, len(entries))
	for _, e := range entries {
		// The write path guarantees kind homogeneity; filter anyway rather
		// than trust it.
		if e.Media.Kind != requestedKind {
			uc.logger.Warn("Skipping entry with mismatched kind",
				zap.String("catalog_id", c.ID.String()),
				zap.String("media_item_id", e.Media.ID.String()))
			continue
		}
		metas = append(metas, buildMeta(e.Media, uc.imageBaseURL))
	}

	return &Listing{Metas: metas}, nil
}

// parseCatalogID strips the "cat_" prefix and trailing ".json" the client
// appends to catalog requests.
func parseCatalogID(raw string) (uuid.UUID, bool) {
	raw = strings.TrimSuffix(raw, ".json")
	raw = strings.TrimPrefix(raw, catalogIDPrefix)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
