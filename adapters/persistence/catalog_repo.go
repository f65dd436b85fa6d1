package persistence

import (
	"context"
	"errors"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/custom-catalogs/internal/domain/catalog"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

type postgresCatalogRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresCatalogRepo(db *pgxpool.Pool, logger logger.Logger) catalog.Repository {
	return &postgresCatalogRepo{db: db, logger: logger}
}

var psqlCatalog = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func scanCatalog(row pgx.Row) (*catalog.Catalog, error) {
	c := &catalog.Catalog{}
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Kind, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("catalog", "")
		}
		return nil, apperror.NewInternal("failed to scan catalog row", err)
	}
	return c, nil
}

func (r *postgresCatalogRepo) Save(ctx context.Context, c *catalog.Catalog) error {
	query := `
		INSERT INTO catalogs (id, owner_id, name, kind, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, c.ID, c.OwnerID, c.Name, c.Kind, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23503" {
			return apperror.NewNotFound("user", c.OwnerID.String())
		}
		return apperror.NewInternal("failed to save catalog", err)
	}
	return nil
}

func (r *postgresCatalogRepo) Rename(ctx context.Context, id, ownerID uuid.UUID, name string) error {
	query := `UPDATE catalogs SET name = $3, updated_at = NOW() WHERE id = $1 AND owner_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, ownerID, name)
	if err != nil {
		return apperror.NewInternal("failed to rename catalog", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("catalog", id.String())
	}
	return nil
}

func (r *postgresCatalogRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM catalogs WHERE id = $1 AND owner_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete catalog", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("catalog", id.String())
	}
	return nil
}

func (r *postgresCatalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Catalog, error) {
	query := `
		SELECT id, owner_id, name, kind, created_at, updated_at
		FROM catalogs
		WHERE id = $1
	`
	return scanCatalog(r.db.QueryRow(ctx, query, id))
}

func (r *postgresCatalogRepo) FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*catalog.Catalog, error) {
	query := `
		SELECT id, owner_id, name, kind, created_at, updated_at
		FROM catalogs
		WHERE id = $1 AND owner_id = $2
	`
	return scanCatalog(r.db.QueryRow(ctx, query, id, ownerID))
}

func (r *postgresCatalogRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*catalog.Catalog, error) {
	builder := psqlCatalog.Select("id, owner_id, name, kind, created_at, updated_at").
		From("catalogs").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at ASC")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list catalogs query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query catalogs by owner", err)
	}
	defer rows.Close()

	catalogs := make([]*catalog.Catalog, 0)
	for rows.Next() {
		c, err := scanCatalog(rows)
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating catalog rows", err)
	}
	return catalogs, nil
}

func (r *postgresCatalogRepo) ListEntries(ctx context.Context, catalogID uuid.UUID) ([]catalog.Entry, error) {
	query := `
		SELECT ci.position,
			m.id, m.tmdb_id, m.kind, m.title, m.poster,
			m.genres, m.description, m.rating, m.imdb_rating, m.runtime,
			m.release_date, m.last_episode_date, m.background, m.logo,
			m.actors, m.directors, m.imdb_id, m.created_at, m.updated_at
		FROM catalog_items ci
		JOIN media_items m ON m.id = ci.media_item_id
		WHERE ci.catalog_id = $1
		ORDER BY ci.position ASC
	`
	rows, err := r.db.Query(ctx, query, catalogID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query catalog entries", err)
	}
	defer rows.Close()

	entries := make([]catalog.Entry, 0)
	for rows.Next() {
		var e catalog.Entry
		var genresBytes []byte
		err := rows.Scan(
			&e.Position,
			&e.Media.ID,
			&e.Media.TmdbID,
			&e.Media.Kind,
			&e.Media.Title,
			&e.Media.Poster,
			&genresBytes,
			&e.Media.Description,
			&e.Media.Rating,
			&e.Media.ImdbRating,
			&e.Media.Runtime,
			&e.Media.ReleaseDate,
			&e.Media.LastEpisodeDate,
			&e.Media.Background,
			&e.Media.Logo,
			&e.Media.Actors,
			&e.Media.Directors,
			&e.Media.ImdbID,
			&e.Media.CreatedAt,
			&e.Media.UpdatedAt,
		)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan catalog entry row", err)
		}
		if len(genresBytes) > 0 {
			if err := unmarshalGenres(genresBytes, &e.Media); err != nil {
				r.logger.Warn("Failed to unmarshal entry genres",
					zap.String("media_item_id", e.Media.ID.String()), zap.Error(err))
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating catalog entry rows", err)
	}
	return entries, nil
}

func (r *postgresCatalogRepo) MaxPosition(ctx context.Context, catalogID uuid.UUID) (int, error) {
	query := `SELECT COALESCE(MAX(position), -1) FROM catalog_items WHERE catalog_id = $1`
	var maxPos int
	if err := r.db.QueryRow(ctx, query, catalogID).Scan(&maxPos); err != nil {
		return 0, apperror.NewInternal("failed to query max position", err)
	}
	return maxPos, nil
}

func (r *postgresCatalogRepo) ReplaceLinks(ctx context.Context, catalogID uuid.UUID, links []catalog.Item) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewTransaction("failed to begin link replace", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM catalog_items WHERE catalog_id = $1`, catalogID); err != nil {
		return apperror.NewTransaction("failed to clear catalog links", err)
	}

	if len(links) > 0 {
		rowsToInsert := make([][]interface{}, len(links))
		for i, link := range links {
			rowsToInsert[i] = []interface{}{link.CatalogID, link.MediaItemID, link.Position, link.CreatedAt}
		}
		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"catalog_items"},
			[]string{"catalog_id", "media_item_id", "position", "created_at"},
			pgx.CopyFromRows(rowsToInsert),
		)
		if err != nil {
			return apperror.NewTransaction("failed to insert catalog links", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewTransaction("failed to commit link replace", err)
	}
	return nil
}

func (r *postgresCatalogRepo) AppendLink(ctx context.Context, link catalog.Item) error {
	query := `
		INSERT INTO catalog_items (catalog_id, media_item_id, position, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, link.CatalogID, link.MediaItemID, link.Position, link.CreatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			// Two unique surfaces trip this code: the membership primary key
			// and the per-catalog position index, which loses the race when
			// two adds read the same max position.
			if pgErr.ConstraintName == "catalog_items_position_key" {
				return apperror.NewConflict("catalog item", "position", strconv.Itoa(link.Position))
			}
			return apperror.NewConflict("catalog item", "media_item_id", link.MediaItemID.String())
		}
		return apperror.NewInternal("failed to append catalog link", err)
	}
	return nil
}
