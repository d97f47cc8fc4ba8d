package location

import (
	"context"
	"log"
	"sort"
	"strings"
)

// Directory enumerates states, cities and pincodes. Results are cached and,
// with network fallback enabled, merged with the postal directory.
type Directory struct {
	gazetteer       *Gazetteer
	cache           *GeoCache
	postal          PostalDirectory
	networkFallback bool
}

func NewDirectory(gazetteer *Gazetteer, cache *GeoCache, postal PostalDirectory, allowNetworkFallback bool) *Directory {
	return &Directory{
		gazetteer:       gazetteer,
		cache:           cache,
		postal:          postal,
		networkFallback: allowNetworkFallback && postal != nil,
	}
}

func (d *Directory) States(ctx context.Context) []string {
	return d.cached(ctx, "states", func() []string {
		states := d.gazetteer.States()
		if !d.networkFallback {
			return states
		}
		for _, state := range d.gazetteer.States() {
			for _, office := range d.sampleOffices(ctx, state) {
				states = append(states, office.State)
			}
		}
		return states
	})
}

func (d *Directory) Cities(ctx context.Context, state string) []string {
	return d.cached(ctx, "cities_"+strings.ToLower(strings.TrimSpace(state)), func() []string {
		cities := d.gazetteer.Cities(state)
		if !d.networkFallback {
			return cities
		}
		for _, office := range d.sampleOffices(ctx, state) {
			if strings.EqualFold(office.State, state) {
				cities = append(cities, office.District)
			}
		}
		return cities
	})
}

func (d *Directory) Pincodes(ctx context.Context, state, city string) []string {
	key := "pincodes_" + strings.ToLower(strings.TrimSpace(state)) + "_" + strings.ToLower(strings.TrimSpace(city))
	return d.cached(ctx, key, func() []string {
		pincodes := d.gazetteer.Pincodes(state, city)
		if !d.networkFallback || strings.TrimSpace(city) == "" {
			return pincodes
		}
		offices, err := d.postal.ByPostOffice(ctx, city)
		if err != nil {
			log.Printf("Postal lookup failed for %s, %s: %v", city, state, err)
			return pincodes
		}
		for _, office := range offices {
			if strings.EqualFold(office.State, state) && strings.EqualFold(office.District, city) {
				pincodes = append(pincodes, office.Pincode)
			}
		}
		return pincodes
	})
}

func (d *Directory) sampleOffices(ctx context.Context, state string) []PostOffice {
	pin, ok := d.gazetteer.SamplePincode(state)
	if !ok {
		return nil
	}
	offices, err := d.postal.ByPincode(ctx, pin)
	if err != nil {
		log.Printf("Postal lookup failed for sample pincode %s of %s: %v", pin, state, err)
		return nil
	}
	return offices
}

func (d *Directory) cached(ctx context.Context, key string, load func() []string) []string {
	if values, ok := Lookup[[]string](ctx, d.cache, key); ok {
		return values
	}
	values := sortedUnique(load())
	d.cache.Set(ctx, key, values)
	return values
}

func sortedUnique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
