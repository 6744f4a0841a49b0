package artworks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/artvault/internal/common"
	"github.com/dmitrijs2005/artvault/internal/dbx"
	"github.com/dmitrijs2005/artvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Artwork) (*models.Artwork, error) {

	query :=
		`INSERT INTO artworks (id, title, artist, year, description, created_by)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.Title, a.Artist, a.Year, a.Description, a.CreatedBy).Scan(&a.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

// Get returns the artwork together with its owner's public identity.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Artwork, error) {
	query :=
		`SELECT a.id, a.title, a.artist, a.year, a.description, a.image_key,
		        a.created_by, a.created_at, a.favorites_count,
		        u.id, u.name, u.email
		 FROM artworks a
		 LEFT JOIN users u ON u.id = a.created_by
		 WHERE a.id = $1
		 `

	a := &models.Artwork{}
	var ownerID, ownerName, ownerEmail sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Title, &a.Artist, &a.Year, &a.Description, &a.ImageKey,
		&a.CreatedBy, &a.CreatedAt, &a.FavoritesCount,
		&ownerID, &ownerName, &ownerEmail)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if ownerID.Valid {
		a.Owner = &models.Identity{ID: ownerID.String, Name: ownerName.String, Email: ownerEmail.String}
	}

	return a, nil
}

// List returns artworks newest first along with the total count.
func (r *PostgresRepository) List(ctx context.Context, offset, limit int) ([]*models.Artwork, int64, error) {

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM artworks`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query :=
		`SELECT id, title, artist, year, description, image_key, created_by, created_at, favorites_count
		 FROM artworks
		 ORDER BY created_at DESC, id
		 LIMIT $1 OFFSET $2
		 `

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Artwork, 0, limit)
	for rows.Next() {
		a := &models.Artwork{}
		if err := rows.Scan(&a.ID, &a.Title, &a.Artist, &a.Year, &a.Description, &a.ImageKey,
			&a.CreatedBy, &a.CreatedAt, &a.FavoritesCount); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return items, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, a *models.Artwork) error {
	query :=
		`UPDATE artworks SET title = $2, artist = $3, year = $4, description = $5
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, a.ID, a.Title, a.Artist, a.Year, a.Description)
	return affectedOne(res, err)
}

func (r *PostgresRepository) SetImageKey(ctx context.Context, id, key string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE artworks SET image_key = $2 WHERE id = $1`, id, key)
	return affectedOne(res, err)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM artworks WHERE id = $1`, id)
	return affectedOne(res, err)
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
