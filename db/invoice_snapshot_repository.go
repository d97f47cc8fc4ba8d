package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vendorhub/internal/util"
	"vendorhub/models"
)

// ErrDuplicate is returned when an invoice number already has a snapshot
var ErrDuplicate = errors.New("record already exists")

type SQLiteInvoiceSnapshotRepository struct {
	db *sql.DB
}

func NewSQLiteInvoiceSnapshotRepository(db *sql.DB) *SQLiteInvoiceSnapshotRepository {
	return &SQLiteInvoiceSnapshotRepository{db: db}
}

func (r *SQLiteInvoiceSnapshotRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.InvoiceSnapshot, error) {
	query := `SELECT id, invoice_number, subscription_id, payload, created_at FROM invoice_snapshots WHERE invoice_number = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, invoiceNumber))
}

func (r *SQLiteInvoiceSnapshotRepository) FindLatestBySubscription(ctx context.Context, subscriptionID int64) (*models.InvoiceSnapshot, error) {
	query := `SELECT id, invoice_number, subscription_id, payload, created_at FROM invoice_snapshots
		WHERE subscription_id = ? ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, subscriptionID))
}

func (r *SQLiteInvoiceSnapshotRepository) scanOne(row *sql.Row) (*models.InvoiceSnapshot, error) {
	var snapshot models.InvoiceSnapshot
	var payload string
	err := row.Scan(&snapshot.ID, &snapshot.InvoiceNumber, &snapshot.SubscriptionID, &payload, &snapshot.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning invoice snapshot: %w", err)
	}
	snapshot.Payload = []byte(payload)
	return &snapshot, nil
}

// Create inserts a snapshot. Snapshots are immutable; a second insert for the
// same invoice number returns ErrDuplicate.
func (r *SQLiteInvoiceSnapshotRepository) Create(ctx context.Context, snapshot *models.InvoiceSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = GenerateID()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO invoice_snapshots (id, invoice_number, subscription_id, payload, created_at) VALUES (?, ?, ?, ?, ?)`
	return util.RetryOnLock(func() error {
		_, err := r.db.ExecContext(ctx, query,
			snapshot.ID, snapshot.InvoiceNumber, snapshot.SubscriptionID, string(snapshot.Payload), snapshot.CreatedAt,
		)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return ErrDuplicate
			}
			return fmt.Errorf("error inserting invoice snapshot: %w", err)
		}
		return nil
	})
}

func (r *SQLiteInvoiceSnapshotRepository) GrantAccess(ctx context.Context, subscriptionID int64, tokenHash string) error {
	query := `INSERT INTO invoice_access (subscription_id, token_hash, granted_at) VALUES (?, ?, ?)
		ON CONFLICT(subscription_id, token_hash) DO UPDATE SET granted_at = excluded.granted_at`
	return util.RetryOnLock(func() error {
		if _, err := r.db.ExecContext(ctx, query, subscriptionID, tokenHash, time.Now().UTC()); err != nil {
			return fmt.Errorf("error granting invoice access: %w", err)
		}
		return nil
	})
}

func (r *SQLiteInvoiceSnapshotRepository) HasAccess(ctx context.Context, subscriptionID int64, tokenHash string) (bool, error) {
	query := `SELECT 1 FROM invoice_access WHERE subscription_id = ? AND token_hash = ?`
	var one int
	err := r.db.QueryRowContext(ctx, query, subscriptionID, tokenHash).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking invoice access: %w", err)
	}
	return true, nil
}

func (r *SQLiteInvoiceSnapshotRepository) Close() error {
	return nil
}
