package backup

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/custom-catalogs/internal/domain/catalog"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

const SchemaVersion = "1.0"

// Document is the portable backup shape: catalogs flattened to membership
// order with only the fields needed to reconstruct links. Enrichment is
// deliberately not exported; reimport re-resolves items by natural key and
// the worker re-enriches them.
type Document struct {
	Version    string          `json:"version"`
	ExportDate time.Time       `json:"exportDate"`
	Catalogs   []CatalogBackup `json:"catalogs"`
}

type CatalogBackup struct {
	Name  string       `json:"name"`
	Type  string       `json:"type"`
	Items []ItemBackup `json:"items"`
}

type ItemBackup struct {
	TmdbID string  `json:"tmdbId"`
	Type   string  `json:"type"`
	Title  string  `json:"title"`
	Poster *string `json:"poster,omitempty"`
}

type ExportUseCase struct {
	catalogRepo catalog.Repository
	logger      logger.Logger
}

func NewExportUseCase(repo catalog.Repository, log logger.Logger) *ExportUseCase {
	return &ExportUseCase{catalogRepo: repo, logger: log}
}

func (uc *ExportUseCase) Execute(ctx context.Context, ownerID uuid.UUID) (*Document, error) {
	catalogs, err := uc.catalogRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Version:    SchemaVersion,
		ExportDate: time.Now().UTC(),
		Catalogs:   make([]CatalogBackup, 0, len(catalogs)),
	}
	for _, c := range catalogs {
		entries, err := uc.catalogRepo.ListEntries(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		doc.Catalogs = append(doc.Catalogs, toCatalogBackup(c, entries))
	}
	return doc, nil
}

func toCatalogBackup(c *catalog.Catalog, entries []catalog.Entry) CatalogBackup {
	items := make([]ItemBackup, len(entries))
	for i, e := range entries {
		items[i] = ItemBackup{
			TmdbID: e.Media.TmdbID,
			Type:   string(e.Media.Kind),
			Title:  e.Media.Title,
			Poster: e.Media.Poster,
		}
	}
	return CatalogBackup{
		Name:  c.Name,
		Type:  string(c.Kind),
		Items: items,
	}
}
