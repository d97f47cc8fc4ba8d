package invoice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"vendorhub/db"
	"vendorhub/internal/backend"
	"vendorhub/models"
)

// ErrSnapshotConflict is returned when an invoice number already belongs to
// another subscription.
var ErrSnapshotConflict = errors.New("invoice number belongs to another subscription")

// InvoiceFetcher loads invoice records from the marketplace backend.
type InvoiceFetcher interface {
	FetchSubscriptionInvoice(ctx context.Context, subscriptionID int64, token string) (*models.InvoiceData, error)
}

type InvoiceService struct {
	Fetcher   InvoiceFetcher
	Snapshots db.InvoiceSnapshotRepository
	DBManager *db.DBManager
	Engine    *LayoutEngine
	View      *View
	Printer   *ChromePrinter
}

func NewInvoiceService(
	fetcher InvoiceFetcher,
	snapshots db.InvoiceSnapshotRepository,
	dbManager *db.DBManager,
	engine *LayoutEngine,
	view *View,
	printer *ChromePrinter,
) *InvoiceService {
	return &InvoiceService{
		Fetcher:   fetcher,
		Snapshots: snapshots,
		DBManager: dbManager,
		Engine:    engine,
		View:      view,
		Printer:   printer,
	}
}

// Load returns the invoice of a subscription. The first rendering of every
// invoice number is stored; later loads return that stored copy so vendor
// edits made after generation never change a historical invoice. When the
// backend is unreachable the most recent stored invoice is served, but only
// to a token the backend has already accepted for this subscription.
func (s *InvoiceService) Load(ctx context.Context, subscriptionID int64, token string) (*models.InvoiceData, error) {
	invoice, err := s.Fetcher.FetchSubscriptionInvoice(ctx, subscriptionID, token)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) || errors.Is(err, backend.ErrNotFound) {
			return nil, err
		}
		return s.loadStored(ctx, subscriptionID, token, err)
	}

	if invoice.SubscriptionID == 0 {
		invoice.SubscriptionID = subscriptionID
	}
	if token != "" {
		if grantErr := s.DBManager.GrantInvoiceAccess(ctx, s.Snapshots, subscriptionID, tokenDigest(token)); grantErr != nil {
			log.Printf("Failed to record invoice access for subscription %d: %v", subscriptionID, grantErr)
		}
	}
	return s.snapshot(ctx, invoice)
}

// loadStored serves the latest snapshot during a backend outage. fetchErr is
// returned whenever the stored copy cannot be served.
func (s *InvoiceService) loadStored(ctx context.Context, subscriptionID int64, token string, fetchErr error) (*models.InvoiceData, error) {
	if token == "" {
		return nil, fetchErr
	}
	allowed, err := s.Snapshots.HasAccess(ctx, subscriptionID, tokenDigest(token))
	if err != nil {
		log.Printf("Failed to check invoice access for subscription %d: %v", subscriptionID, err)
		return nil, fetchErr
	}
	if !allowed {
		log.Printf("Backend unavailable for subscription %d and token was never accepted, not serving stored invoice", subscriptionID)
		return nil, fetchErr
	}

	snapshot, err := s.Snapshots.FindLatestBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, fetchErr
	}
	log.Printf("Backend unavailable for subscription %d, serving stored invoice %s: %v", subscriptionID, snapshot.InvoiceNumber, fetchErr)
	return decodeSnapshot(snapshot)
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *InvoiceService) snapshot(ctx context.Context, invoice *models.InvoiceData) (*models.InvoiceData, error) {
	existing, err := s.Snapshots.FindByInvoiceNumber(ctx, invoice.InvoiceNumber)
	if err == nil {
		if existing.SubscriptionID != invoice.SubscriptionID {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotConflict, invoice.InvoiceNumber)
		}
		return decodeSnapshot(existing)
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	payload, err := json.Marshal(invoice)
	if err != nil {
		return nil, fmt.Errorf("failed to encode invoice %s: %w", invoice.InvoiceNumber, err)
	}
	snapshot := &models.InvoiceSnapshot{
		InvoiceNumber:  invoice.InvoiceNumber,
		SubscriptionID: invoice.SubscriptionID,
		Payload:        payload,
	}

	err = s.DBManager.CreateInvoiceSnapshot(ctx, s.Snapshots, snapshot)
	if errors.Is(err, db.ErrDuplicate) {
		// Another request stored it first.
		existing, err := s.Snapshots.FindByInvoiceNumber(ctx, invoice.InvoiceNumber)
		if err != nil {
			return nil, err
		}
		return decodeSnapshot(existing)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("Stored invoice snapshot %s for subscription %d", invoice.InvoiceNumber, invoice.SubscriptionID)
	return invoice, nil
}

func decodeSnapshot(snapshot *models.InvoiceSnapshot) (*models.InvoiceData, error) {
	var invoice models.InvoiceData
	if err := json.Unmarshal(snapshot.Payload, &invoice); err != nil {
		return nil, fmt.Errorf("failed to decode invoice snapshot %s: %w", snapshot.InvoiceNumber, err)
	}
	return &invoice, nil
}

// GeneratePDF lays the invoice out with the PDF layout engine. An empty
// filename selects the default download name.
func (s *InvoiceService) GeneratePDF(invoice *models.InvoiceData, filename string) (*Document, error) {
	doc, err := s.Engine.Generate(invoice)
	if err != nil {
		return nil, err
	}
	if filename != "" {
		doc.Filename = filename
	}
	return doc, nil
}

// PrintView renders the HTML view and prints it through headless Chrome.
func (s *InvoiceService) PrintView(ctx context.Context, invoice *models.InvoiceData) ([]byte, error) {
	if !s.Printer.Enabled() {
		return nil, ErrPrinterDisabled
	}
	html, err := s.View.RenderString(invoice, ViewActions{})
	if err != nil {
		return nil, err
	}
	return s.Printer.Print(ctx, html)
}
