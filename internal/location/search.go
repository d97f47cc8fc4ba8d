package location

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"vendorhub/models"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	MinSearchLength  = 3
	MaxSearchResults = 10
)

// ErrSuperseded is returned for a search whose client has since issued a
// newer one.
var ErrSuperseded = errors.New("search superseded by a newer query")

var sixDigits = regexp.MustCompile(`^\d{6}$`)

// SearchIndex answers search-as-you-type queries over the gazetteer. A match
// on a state, city or pincode includes every pincode of the matching city.
// With network fallback enabled the postal directory is merged in as well.
type SearchIndex struct {
	gazetteer       *Gazetteer
	cache           *GeoCache
	postal          PostalDirectory
	networkFallback bool
}

func NewSearchIndex(gazetteer *Gazetteer, cache *GeoCache, postal PostalDirectory, allowNetworkFallback bool) *SearchIndex {
	return &SearchIndex{
		gazetteer:       gazetteer,
		cache:           cache,
		postal:          postal,
		networkFallback: allowNetworkFallback && postal != nil,
	}
}

// Search returns at most MaxSearchResults matches. Queries shorter than
// MinSearchLength characters return an empty result.
func (s *SearchIndex) Search(ctx context.Context, query string) []models.PlaceMatch {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSearchLength {
		return []models.PlaceMatch{}
	}

	needle := strings.ToLower(query)
	key := "search_" + needle
	if cached, ok := Lookup[[]models.PlaceMatch](ctx, s.cache, key); ok {
		return cached
	}

	results := s.gazetteer.Match(needle, MaxSearchResults)
	if s.networkFallback && len(results) < MaxSearchResults {
		results = mergeMatches(results, s.postalMatches(ctx, query), MaxSearchResults)
	}
	if results == nil {
		results = []models.PlaceMatch{}
	}

	s.cache.Set(ctx, key, results)
	return results
}

func (s *SearchIndex) postalMatches(ctx context.Context, query string) []models.PlaceMatch {
	var offices []PostOffice
	var err error
	if sixDigits.MatchString(query) {
		offices, err = s.postal.ByPincode(ctx, query)
	} else {
		offices, err = s.postal.ByPostOffice(ctx, query)
	}
	if err != nil {
		log.Printf("Postal search failed for %q: %v", query, err)
		return nil
	}

	matches := make([]models.PlaceMatch, 0, len(offices))
	for _, office := range offices {
		matches = append(matches, models.PlaceMatch{State: office.State, City: office.District, Pincode: office.Pincode})
	}
	return matches
}

func mergeMatches(base, extra []models.PlaceMatch, limit int) []models.PlaceMatch {
	seen := make(map[models.PlaceMatch]bool, len(base))
	for _, m := range base {
		seen[m] = true
	}
	for _, m := range extra {
		if len(base) >= limit {
			break
		}
		if m.Pincode == "" || seen[m] {
			continue
		}
		seen[m] = true
		base = append(base, m)
	}
	return base
}

// SearchTracker keeps the latest search token per client so a slow response
// to an older keystroke can be discarded.
type SearchTracker struct {
	mu     sync.Mutex
	next   uint64
	latest *lru.Cache[string, uint64]
}

func NewSearchTracker(maxClients int) (*SearchTracker, error) {
	if maxClients <= 0 {
		maxClients = 10000
	}
	latest, err := lru.New[string, uint64](maxClients)
	if err != nil {
		return nil, err
	}
	return &SearchTracker{latest: latest}, nil
}

// Begin issues a new token for client, superseding earlier ones.
func (t *SearchTracker) Begin(client string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.latest.Add(client, t.next)
	return t.next
}

// IsLatest reports whether token is still the newest for client.
func (t *SearchTracker) IsLatest(client string, token uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	current, ok := t.latest.Get(client)
	return ok && current == token
}

// Search runs query for client and returns ErrSuperseded if the client
// started another search before this one finished.
func (t *SearchTracker) Search(ctx context.Context, index *SearchIndex, client, query string) ([]models.PlaceMatch, error) {
	token := t.Begin(client)
	results := index.Search(ctx, query)
	if !t.IsLatest(client, token) {
		return nil, ErrSuperseded
	}
	return results, nil
}
