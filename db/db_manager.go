package db

import (
	"context"
	"errors"
	"log"
	"time"

	"vendorhub/models"
)

// ErrManagerStopped is returned for operations submitted after Stop
var ErrManagerStopped = errors.New("database manager stopped")

// Operation represents a database write that needs to be executed
type Operation struct {
	Execute func() error
	Result  chan error
}

// DBManager serializes writes to the SQLite file so concurrent requests do not
// fight over the write lock.
type DBManager struct {
	opQueue  chan Operation
	stopping chan struct{}
}

// NewDBManager creates a new database manager
func NewDBManager() *DBManager {
	m := &DBManager{
		opQueue:  make(chan Operation, 100),
		stopping: make(chan struct{}),
	}

	go m.worker()
	log.Println("Database access manager started")

	return m
}

// worker processes operations one at a time
func (m *DBManager) worker() {
	for {
		select {
		case op := <-m.opQueue:
			op.Result <- op.Execute()
		case <-m.stopping:
			return
		}
	}
}

// ExecuteOperation queues execute and waits for its result
func (m *DBManager) ExecuteOperation(ctx context.Context, execute func() error) error {
	select {
	case <-m.stopping:
		return ErrManagerStopped
	default:
	}

	resultChan := make(chan error, 1)
	select {
	case m.opQueue <- Operation{Execute: execute, Result: resultChan}:
	case <-m.stopping:
		return ErrManagerStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-resultChan:
		return err
	case <-m.stopping:
		return ErrManagerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop stops the database manager
func (m *DBManager) Stop() {
	close(m.stopping)
}

// UpsertGeocodeCache serializes cache write-through
func (m *DBManager) UpsertGeocodeCache(ctx context.Context, repo GeocodeCacheRepository, row *models.GeocodeCacheRow, ttl time.Duration) error {
	return m.ExecuteOperation(ctx, func() error {
		return repo.Upsert(ctx, row, ttl)
	})
}

// CreateInvoiceSnapshot serializes snapshot creation
func (m *DBManager) CreateInvoiceSnapshot(ctx context.Context, repo InvoiceSnapshotRepository, snapshot *models.InvoiceSnapshot) error {
	return m.ExecuteOperation(ctx, func() error {
		return repo.Create(ctx, snapshot)
	})
}

// GrantInvoiceAccess serializes access grants
func (m *DBManager) GrantInvoiceAccess(ctx context.Context, repo InvoiceSnapshotRepository, subscriptionID int64, tokenHash string) error {
	return m.ExecuteOperation(ctx, func() error {
		return repo.GrantAccess(ctx, subscriptionID, tokenHash)
	})
}
