package location

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"vendorhub/models"
)

var (
	// ErrAddressNotFound means the provider answered with zero matches.
	ErrAddressNotFound = errors.New("address not found")
	// ErrRequestFailed means the provider could not be reached.
	ErrRequestFailed = errors.New("geocoding request failed")
)

type ForwardGeocoder struct {
	open  OpenGeocoder
	cache *GeoCache
	chain extractionChain
}

func NewForwardGeocoder(open OpenGeocoder, cache *GeoCache, heuristics bool) *ForwardGeocoder {
	return &ForwardGeocoder{open: open, cache: cache, chain: newExtractionChain(heuristics)}
}

// Geocode returns the best match for a free-text address.
func (g *ForwardGeocoder) Geocode(ctx context.Context, address string) (*models.LocationRecord, error) {
	query := strings.TrimSpace(address)
	if query == "" {
		return nil, ErrAddressNotFound
	}

	key := "geocode_" + strings.ToLower(query)
	if g.cache != nil {
		if cached, ok := Lookup[models.LocationRecord](ctx, g.cache, key); ok {
			return &cached, nil
		}
	}

	places, err := g.open.Search(ctx, query)
	if err != nil {
		log.Printf("Forward geocoding failed for %q: %v", query, err)
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if len(places) == 0 {
		return nil, ErrAddressNotFound
	}

	place := places[0]
	record := &models.LocationRecord{Source: SourceOpen}
	if tier := g.chain.apply(&place, record); tier != "" && tier != structuredTier {
		record.Source = SourceHeuristic
	}
	if lat, err := strconv.ParseFloat(place.Lat, 64); err == nil {
		record.Latitude = &lat
	}
	if lon, err := strconv.ParseFloat(place.Lon, 64); err == nil {
		record.Longitude = &lon
	}

	if g.cache != nil {
		g.cache.Set(ctx, key, *record)
	}
	return record, nil
}
