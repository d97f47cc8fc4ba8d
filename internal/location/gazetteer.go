package location

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"vendorhub/models"
)

//go:embed data/gazetteer.json
var gazetteerJSON []byte

// Gazetteer is the read-only state -> city -> pincode reference table.
// States and cities are kept sorted by name.
type Gazetteer struct {
	states []models.GazetteerState
	index  map[string]int
}

// LoadGazetteer parses the embedded table.
func LoadGazetteer() (*Gazetteer, error) {
	return ParseGazetteer(gazetteerJSON)
}

func ParseGazetteer(data []byte) (*Gazetteer, error) {
	var states []models.GazetteerState
	if err := json.Unmarshal(data, &states); err != nil {
		return nil, fmt.Errorf("failed to parse gazetteer: %w", err)
	}

	sort.Slice(states, func(i, j int) bool { return states[i].State < states[j].State })
	g := &Gazetteer{states: states, index: make(map[string]int, len(states))}
	for i := range states {
		cities := states[i].Cities
		sort.Slice(cities, func(a, b int) bool { return cities[a].City < cities[b].City })
		for c := range cities {
			sort.Strings(cities[c].Pincodes)
		}
		g.index[strings.ToLower(states[i].State)] = i
	}
	return g, nil
}

func (g *Gazetteer) States() []string {
	names := make([]string, 0, len(g.states))
	for _, s := range g.states {
		names = append(names, s.State)
	}
	return names
}

func (g *Gazetteer) state(name string) (models.GazetteerState, bool) {
	i, ok := g.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return models.GazetteerState{}, false
	}
	return g.states[i], true
}

// Cities returns the cities of state, or nil for an unknown state.
func (g *Gazetteer) Cities(state string) []string {
	s, ok := g.state(state)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(s.Cities))
	for _, c := range s.Cities {
		names = append(names, c.City)
	}
	return names
}

// Pincodes returns the pincodes of a city, or nil when unknown.
func (g *Gazetteer) Pincodes(state, city string) []string {
	s, ok := g.state(state)
	if !ok {
		return nil
	}
	for _, c := range s.Cities {
		if strings.EqualFold(c.City, strings.TrimSpace(city)) {
			return append([]string(nil), c.Pincodes...)
		}
	}
	return nil
}

// SamplePincode is a representative pincode of a state, used to query the
// postal provider.
func (g *Gazetteer) SamplePincode(state string) (string, bool) {
	s, ok := g.state(state)
	if !ok {
		return "", false
	}
	for _, c := range s.Cities {
		if len(c.Pincodes) > 0 {
			return c.Pincodes[0], true
		}
	}
	return "", false
}

// Match returns every pincode of every city where the state name, city name
// or any of the city's pincodes contains needle. needle must be lower case.
// Iteration stops once limit matches are collected.
func (g *Gazetteer) Match(needle string, limit int) []models.PlaceMatch {
	var out []models.PlaceMatch
	for _, s := range g.states {
		stateHit := strings.Contains(strings.ToLower(s.State), needle)
		for _, c := range s.Cities {
			if !stateHit && !cityMatches(c, needle) {
				continue
			}
			for _, pin := range c.Pincodes {
				out = append(out, models.PlaceMatch{State: s.State, City: c.City, Pincode: pin})
				if len(out) >= limit {
					return out
				}
			}
		}
	}
	return out
}

func cityMatches(c models.GazetteerCity, needle string) bool {
	if strings.Contains(strings.ToLower(c.City), needle) {
		return true
	}
	for _, pin := range c.Pincodes {
		if strings.Contains(pin, needle) {
			return true
		}
	}
	return false
}
