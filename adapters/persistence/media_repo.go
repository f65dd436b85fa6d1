package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/custom-catalogs/internal/domain/media"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

type postgresMediaRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresMediaRepo(db *pgxpool.Pool, logger logger.Logger) media.Repository {
	return &postgresMediaRepo{db: db, logger: logger}
}

const mediaColumns = `
	id, tmdb_id, kind, title, poster,
	genres, description, rating, imdb_rating, runtime,
	release_date, last_episode_date, background, logo,
	actors, directors, imdb_id, created_at, updated_at
`

func scanMediaItem(row pgx.Row, l logger.Logger) (*media.Item, error) {
	item := &media.Item{}
	var genresBytes []byte

	err := row.Scan(
		&item.ID,
		&item.TmdbID,
		&item.Kind,
		&item.Title,
		&item.Poster,
		&genresBytes,
		&item.Description,
		&item.Rating,
		&item.ImdbRating,
		&item.Runtime,
		&item.ReleaseDate,
		&item.LastEpisodeDate,
		&item.Background,
		&item.Logo,
		&item.Actors,
		&item.Directors,
		&item.ImdbID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("media item", "")
		}
		return nil, apperror.NewInternal("failed to scan media item row", err)
	}

	if len(genresBytes) > 0 {
		if err := json.Unmarshal(genresBytes, &item.Genres); err != nil {
			l.Warn("Failed to unmarshal media item genres", zap.String("media_item_id", item.ID.String()), zap.Error(err))
			item.Genres = nil
		}
	}

	return item, nil
}

func marshalGenres(genres []string) ([]byte, error) {
	if genres == nil {
		return nil, nil
	}
	return json.Marshal(genres)
}

func unmarshalGenres(b []byte, item *media.Item) error {
	return json.Unmarshal(b, &item.Genres)
}

func (r *postgresMediaRepo) Upsert(ctx context.Context, item *media.Item) (*media.Item, error) {
	query := `
		INSERT INTO media_items (id, tmdb_id, kind, title, poster, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (tmdb_id, kind)
		DO UPDATE SET title = EXCLUDED.title, poster = EXCLUDED.poster, updated_at = NOW()
		RETURNING ` + mediaColumns
	row := r.db.QueryRow(ctx, query, item.ID, item.TmdbID, item.Kind, item.Title, item.Poster)
	return scanMediaItem(row, r.logger)
}

func (r *postgresMediaRepo) GetOrCreate(ctx context.Context, item *media.Item) (*media.Item, error) {
	// Insert-if-absent then read back, so a conflicting row is returned
	// untouched.
	query := `
		INSERT INTO media_items (id, tmdb_id, kind, title, poster, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (tmdb_id, kind) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, item.ID, item.TmdbID, item.Kind, item.Title, item.Poster); err != nil {
		return nil, apperror.NewInternal("failed to insert media item", err)
	}
	return r.FindByNaturalKey(ctx, item.TmdbID, item.Kind)
}

func (r *postgresMediaRepo) FindByID(ctx context.Context, id uuid.UUID) (*media.Item, error) {
	query := `SELECT ` + mediaColumns + ` FROM media_items WHERE id = $1`
	return scanMediaItem(r.db.QueryRow(ctx, query, id), r.logger)
}

func (r *postgresMediaRepo) FindByNaturalKey(ctx context.Context, tmdbID string, kind media.Kind) (*media.Item, error) {
	query := `SELECT ` + mediaColumns + ` FROM media_items WHERE tmdb_id = $1 AND kind = $2`
	return scanMediaItem(r.db.QueryRow(ctx, query, tmdbID, kind), r.logger)
}

func (r *postgresMediaRepo) UpdateEnrichment(ctx context.Context, item *media.Item) error {
	genresBytes, err := marshalGenres(item.Genres)
	if err != nil {
		return apperror.NewInternal("failed to marshal media item genres", err)
	}

	query := `
		UPDATE media_items SET
			genres = $2, description = $3, rating = $4, imdb_rating = $5,
			runtime = $6, release_date = $7, last_episode_date = $8,
			background = $9, logo = $10, actors = $11, directors = $12,
			imdb_id = $13, updated_at = NOW()
		WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query,
		item.ID, genresBytes, item.Description, item.Rating, item.ImdbRating,
		item.Runtime, item.ReleaseDate, item.LastEpisodeDate,
		item.Background, item.Logo, item.Actors, item.Directors,
		item.ImdbID,
	)
	if err != nil {
		return apperror.NewInternal("failed to update media item enrichment", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("media item", item.ID.String())
	}
	return nil
}
