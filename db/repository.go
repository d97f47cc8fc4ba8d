package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vendorhub/models"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repository defines a common interface for all repositories
type Repository interface {
	Close() error
}

// GeocodeCacheRepository persists geocoding cache entries
type GeocodeCacheRepository interface {
	Repository
	FindByKey(ctx context.Context, key string) (*models.GeocodeCacheRow, error)
	Upsert(ctx context.Context, row *models.GeocodeCacheRow, ttl time.Duration) error
	CleanupExpired(ctx context.Context) (int64, error)
}

// InvoiceSnapshotRepository stores the first rendering of every invoice
type InvoiceSnapshotRepository interface {
	Repository
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.InvoiceSnapshot, error)
	FindLatestBySubscription(ctx context.Context, subscriptionID int64) (*models.InvoiceSnapshot, error)
	Create(ctx context.Context, snapshot *models.InvoiceSnapshot) error
	// GrantAccess records that the backend served the subscription's invoice
	// to the holder of tokenHash.
	GrantAccess(ctx context.Context, subscriptionID int64, tokenHash string) error
	HasAccess(ctx context.Context, subscriptionID int64, tokenHash string) (bool, error)
}

// RepositoryFactory creates repositories over one SQLite handle
type RepositoryFactory struct {
	SQLiteDB *sql.DB
	DBName   string
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(sqliteDB *sql.DB, dbName string) *RepositoryFactory {
	return &RepositoryFactory{
		SQLiteDB: sqliteDB,
		DBName:   dbName,
	}
}

// NewGeocodeCacheRepository creates a new geocode cache repository
func (f *RepositoryFactory) NewGeocodeCacheRepository() GeocodeCacheRepository {
	return NewSQLiteGeocodeCacheRepository(f.SQLiteDB)
}

// NewInvoiceSnapshotRepository creates a new invoice snapshot repository
func (f *RepositoryFactory) NewInvoiceSnapshotRepository() InvoiceSnapshotRepository {
	return NewSQLiteInvoiceSnapshotRepository(f.SQLiteDB)
}

// GenerateID generates a unique ID for a record
func GenerateID() string {
	return uuid.New().String()
}
