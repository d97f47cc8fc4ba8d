package location

import (
	"fmt"
	"log"

	"vendorhub/internal/config"
)

// LocationService groups the location components built from configuration.
type LocationService struct {
	Cache     *GeoCache
	Gazetteer *Gazetteer
	Directory *Directory
	Search    *SearchIndex
	Tracker   *SearchTracker
	Reverse   *ReverseGeocoder
	Forward   *ForwardGeocoder
}

func NewLocationService(cfg *config.Config, cache *GeoCache) (*LocationService, error) {
	gazetteer, err := LoadGazetteer()
	if err != nil {
		return nil, err
	}
	tracker, err := NewSearchTracker(0)
	if err != nil {
		return nil, fmt.Errorf("failed to create search tracker: %w", err)
	}

	open := NewNominatimGeocoder(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.NominatimRatePerSec, cfg.GeocodeTimeout)
	postal := NewPostalClient(cfg.PostalAPIURL, cfg.GeocodeTimeout)

	var premium PremiumGeocoder
	if cfg.GoogleMapsAPIKey != "" {
		premium = NewGoogleGeocoder(cfg.GoogleMapsAPIKey, cfg.GoogleMapsURL, cfg.GeocodeTimeout)
		log.Println("Premium geocoding provider configured")
	} else {
		log.Println("No premium geocoding key, using open provider only")
	}

	return &LocationService{
		Cache:     cache,
		Gazetteer: gazetteer,
		Directory: NewDirectory(gazetteer, cache, postal, cfg.LocationNetworkFallback),
		Search:    NewSearchIndex(gazetteer, cache, postal, cfg.LocationNetworkFallback),
		Tracker:   tracker,
		Reverse:   NewReverseGeocoder(premium, open, cache, cfg.HeuristicExtraction),
		Forward:   NewForwardGeocoder(open, cache, cfg.HeuristicExtraction),
	}, nil
}
