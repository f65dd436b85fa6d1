package metadata

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/khoahotran/custom-catalogs/internal/application/service"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

// BrowseUseCase fronts the metadata provider for the dashboard's search and
// discover screens. Payloads pass through verbatim; ranking and shape belong
// to the upstream API.
type BrowseUseCase struct {
	provider service.MetadataProvider
	logger   logger.Logger
}

func NewBrowseUseCase(provider service.MetadataProvider, log logger.Logger) *BrowseUseCase {
	return &BrowseUseCase{provider: provider, logger: log}
}

func (uc *BrowseUseCase) Search(ctx context.Context, query, mediaType string) (json.RawMessage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperror.NewInvalidInput("query is required", nil)
	}
	return uc.provider.Search(ctx, query, mediaType)
}

func (uc *BrowseUseCase) Discover(ctx context.Context, mediaType string, params map[string]string) (json.RawMessage, error) {
	return uc.provider.Discover(ctx, mediaType, params)
}
