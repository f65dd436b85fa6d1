package addon

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/khoahotran/custom-catalogs/internal/domain/catalog"
	"github.com/khoahotran/custom-catalogs/internal/domain/user"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

var tracer = otel.Tracer("addon_usecase")

const catalogIDPrefix = "cat_"

// Manifest is the installable addon descriptor the Stremio client fetches
// once at install time.
type Manifest struct {
	ID          string            `json:"id"`
	Version     string            `json:"version"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Resources   []string          `json:"resources"`
	Types       []string          `json:"types"`
	Catalogs    []ManifestCatalog `json:"catalogs"`
}

type ManifestCatalog struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Extra []ManifestExtra `json:"extra"`
}

type ManifestExtra struct {
	Name       string `json:"name"`
	IsRequired bool   `json:"isRequired"`
}

type ManifestUseCase struct {
	userRepo    user.Repository
	catalogRepo catalog.Repository
	logger      logger.Logger
}

func NewManifestUseCase(uRepo user.Repository, cRepo catalog.Repository, log logger.Logger) *ManifestUseCase {
	return &ManifestUseCase{
		userRepo:    uRepo,
		catalogRepo: cRepo,
		logger:      log,
	}
}

// Execute renders the manifest for one user. An unknown user propagates as
// NotFound; each catalog contributes exactly one descriptor typed by its own
// kind.
func (uc *ManifestUseCase) Execute(ctx context.Context, userID uuid.UUID) (*Manifest, error) {
	ctx, span := tracer.Start(ctx, "Manifest")
	defer span.End()

	if _, err := uc.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	catalogs, err := uc.catalogRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	descriptors := make([]ManifestCatalog, len(catalogs))
	for i, c := range catalogs {
		descriptors[i] = ManifestCatalog{
			Type:  string(c.Kind),
			ID:    catalogIDPrefix + c.ID.String(),
			Name:  c.Name,
			Extra: []ManifestExtra{{Name: "search", IsRequired: false}},
		}
	}

	return &Manifest{
		ID:          fmt.Sprintf("com.customcatalogs.%s", userID),
		Version:     "1.0.0",
		Name:        "Custom Catalogs",
		Description: "Your personal custom catalogs",
		Resources:   []string{"catalog"},
		Types:       []string{"movie", "series"},
		Catalogs:    descriptors,
	}, nil
}
