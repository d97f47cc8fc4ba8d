package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"vendorhub/internal/util"
	"vendorhub/models"
)

type SQLiteGeocodeCacheRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteGeocodeCacheRepository(db *sql.DB) *SQLiteGeocodeCacheRepository {
	return &SQLiteGeocodeCacheRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// FindByKey retrieves an unexpired cache row
func (r *SQLiteGeocodeCacheRepository) FindByKey(ctx context.Context, key string) (*models.GeocodeCacheRow, error) {
	query := `
		SELECT id, cache_key, value, created_at, updated_at, expires_at
		FROM geocode_cache
		WHERE cache_key = ? AND expires_at > ?
	`

	var row models.GeocodeCacheRow
	var value string
	err := r.db.QueryRowContext(ctx, query, key, r.now()).Scan(
		&row.ID, &row.Key, &value, &row.CreatedAt, &row.UpdatedAt, &row.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find geocode cache by key: %w", err)
	}

	row.Value = []byte(value)
	return &row, nil
}

// Upsert writes the row, restarting its expiry window
func (r *SQLiteGeocodeCacheRepository) Upsert(ctx context.Context, row *models.GeocodeCacheRow, ttl time.Duration) error {
	if row.ID == "" {
		row.ID = GenerateID()
	}

	now := r.now()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	row.ExpiresAt = row.UpdatedAt.Add(ttl)

	query := `
		INSERT INTO geocode_cache (id, cache_key, value, created_at, updated_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at,
			expires_at = excluded.expires_at
	`

	return util.RetryOnLock(func() error {
		_, err := r.db.ExecContext(ctx, query,
			row.ID, row.Key, string(row.Value), row.CreatedAt, row.UpdatedAt, row.ExpiresAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert geocode cache: %w", err)
		}
		return nil
	})
}

// CleanupExpired removes expired cache rows
func (r *SQLiteGeocodeCacheRepository) CleanupExpired(ctx context.Context) (int64, error) {
	rowsAffected, err := util.RetryOnLockWithResult(func() (int64, error) {
		result, err := r.db.ExecContext(ctx, `DELETE FROM geocode_cache WHERE expires_at < ?`, r.now())
		if err != nil {
			return 0, fmt.Errorf("failed to cleanup expired geocode cache: %w", err)
		}
		return result.RowsAffected()
	})
	if err != nil {
		return 0, err
	}
	if rowsAffected > 0 {
		log.Printf("Cleaned up %d expired geocode cache entries", rowsAffected)
	}

	return rowsAffected, nil
}

// Close satisfies Repository; the connection is owned by main.
func (r *SQLiteGeocodeCacheRepository) Close() error {
	return nil
}
