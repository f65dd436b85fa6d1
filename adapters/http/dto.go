package http

import (
	"time"

	"github.com/khoahotran/custom-catalogs/internal/domain/catalog"
	"github.com/khoahotran/custom-catalogs/internal/domain/media"
)

// Auth DTOs

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Catalog DTOs

type CreateCatalogRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,oneof=movie series"`
}

type CatalogItemRequest struct {
	TmdbID string  `json:"tmdbId" binding:"required"`
	Type   string  `json:"type" binding:"required,oneof=movie series"`
	Title  string  `json:"title" binding:"required"`
	Poster *string `json:"poster"`
}

type UpdateCatalogRequest struct {
	Name string `json:"name"`
	// Items nil leaves membership alone; [] clears the catalog.
	Items []CatalogItemRequest `json:"items"`
}

type CatalogItemDTO struct {
	TmdbID string  `json:"tmdbId"`
	Type   string  `json:"type"`
	Title  string  `json:"title"`
	Poster *string `json:"poster"`
}

type CatalogDTO struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      string           `json:"type"`
	Items     []CatalogItemDTO `json:"items"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func toCatalogItemDTO(m media.Item) CatalogItemDTO {
	return CatalogItemDTO{
		TmdbID: m.TmdbID,
		Type:   string(m.Kind),
		Title:  m.Title,
		Poster: m.Poster,
	}
}

func ToCatalogDTO(c *catalog.Catalog, entries []catalog.Entry) CatalogDTO {
	items := make([]CatalogItemDTO, len(entries))
	for i, e := range entries {
		items[i] = toCatalogItemDTO(e.Media)
	}
	return CatalogDTO{
		ID:        c.ID.String(),
		Name:      c.Name,
		Type:      string(c.Kind),
		Items:     items,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r CatalogItemRequest) ToRef() catalog.Ref {
	return catalog.Ref{
		TmdbID: r.TmdbID,
		Kind:   media.Kind(r.Type),
		Title:  r.Title,
		Poster: r.Poster,
	}
}

func (r *UpdateCatalogRequest) ToRefs() []catalog.Ref {
	if r.Items == nil {
		return nil
	}
	refs := make([]catalog.Ref, len(r.Items))
	for i, item := range r.Items {
		refs[i] = item.ToRef()
	}
	return refs
}
