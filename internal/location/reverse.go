package location

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"vendorhub/models"
)

// ErrGeocodingUnavailable is the soft failure returned alongside a
// coordinate-only placeholder record.
var ErrGeocodingUnavailable = errors.New("geocoding unavailable")

// Flow identifies the caller of a reverse lookup. Map selections are cached;
// device GPS fixes are rarely repeated and are not.
type Flow string

const (
	FlowMap Flow = "map"
	FlowGPS Flow = "gps"
)

const (
	SourcePremium     = "premium"
	SourceOpen        = "open"
	SourceHeuristic   = "heuristic"
	SourcePlaceholder = "placeholder"
)

type ReverseGeocoder struct {
	premium PremiumGeocoder
	open    OpenGeocoder
	cache   *GeoCache
	chain   extractionChain
}

// NewReverseGeocoder builds the resolver. premium may be nil when no API key
// is configured; it is then never called.
func NewReverseGeocoder(premium PremiumGeocoder, open OpenGeocoder, cache *GeoCache, heuristics bool) *ReverseGeocoder {
	return &ReverseGeocoder{
		premium: premium,
		open:    open,
		cache:   cache,
		chain:   newExtractionChain(heuristics),
	}
}

func reverseKey(lat, lon float64) string {
	return fmt.Sprintf("reverse_%.6f_%.6f", lat, lon)
}

// Resolve turns coordinates into a location record. It always returns a
// record: when no provider yields any address the record carries a
// placeholder address and the error is ErrGeocodingUnavailable. Provider
// failures are logged and fall through to the next step.
func (g *ReverseGeocoder) Resolve(ctx context.Context, lat, lon float64, flow Flow) (*models.LocationRecord, error) {
	key := reverseKey(lat, lon)
	if flow == FlowMap && g.cache != nil {
		if cached, ok := Lookup[models.LocationRecord](ctx, g.cache, key); ok {
			return &cached, nil
		}
	}

	record := &models.LocationRecord{}
	if g.premium != nil {
		premium, err := g.premium.ReverseGeocode(ctx, lat, lon)
		switch {
		case err != nil:
			log.Printf("Premium reverse geocoding failed for %.6f,%.6f: %v", lat, lon, err)
		case premium == nil:
		case premium.City != "" && premium.State != "":
			premium.Source = SourcePremium
			return g.finish(ctx, key, premium, lat, lon, flow), nil
		default:
			record = premium
			record.Source = SourcePremium
		}
	}

	if g.open != nil {
		place, err := g.open.Reverse(ctx, lat, lon)
		if err != nil {
			log.Printf("Open reverse geocoding failed for %.6f,%.6f: %v", lat, lon, err)
		} else {
			switch tier := g.chain.apply(place, record); tier {
			case "":
			case structuredTier:
				record.Source = SourceOpen
			default:
				record.Source = SourceHeuristic
			}
		}
	}

	if record.Address == "" {
		record.Address = joinNonEmpty(record.City, record.State, record.Pincode)
	}
	if record.Address == "" {
		log.Printf("No address found for %.6f,%.6f, using placeholder", lat, lon)
		placeholder := &models.LocationRecord{
			Address: fmt.Sprintf("Location at %.6f, %.6f", lat, lon),
			Source:  SourcePlaceholder,
		}
		setCoordinates(placeholder, lat, lon)
		return placeholder, ErrGeocodingUnavailable
	}

	return g.finish(ctx, key, record, lat, lon, flow), nil
}

// ResolveFix resolves a device fix through the uncached GPS flow and keeps
// the reported accuracy.
func (g *ReverseGeocoder) ResolveFix(ctx context.Context, fix models.DeviceFix) (*models.LocationRecord, error) {
	record, err := g.Resolve(ctx, fix.Latitude, fix.Longitude, FlowGPS)
	if fix.Accuracy > 0 {
		accuracy := fix.Accuracy
		record.Accuracy = &accuracy
	}
	return record, err
}

func (g *ReverseGeocoder) finish(ctx context.Context, key string, record *models.LocationRecord, lat, lon float64, flow Flow) *models.LocationRecord {
	setCoordinates(record, lat, lon)
	if flow == FlowMap && g.cache != nil {
		g.cache.Set(ctx, key, *record)
	}
	return record
}

func setCoordinates(record *models.LocationRecord, lat, lon float64) {
	record.Latitude = &lat
	record.Longitude = &lon
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
