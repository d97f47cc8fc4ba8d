package location

import (
	"log"
	"regexp"
	"strings"
	"sync"

	"vendorhub/models"
)

var (
	cityFields     = []string{"city", "town", "village", "hamlet", "suburb"}
	postcodeFields = []string{"postcode", "postal_code", "postalcode", "zip"}

	pincodePattern = regexp.MustCompile(`\b(\d{6})\b`)
	pincodeOnly    = regexp.MustCompile(`^\d{6}$`)
	segmentMarkers = []string{"india", "district", "tahsil", "tehsil", "taluk", "division"}
)

// Extractor fills empty fields of record from a provider result and reports
// whether it filled anything.
type Extractor interface {
	Name() string
	Extract(place *Place, record *models.LocationRecord) bool
}

// StructuredExtractor reads the provider's address object, trying the
// alternate field names different regions populate.
type StructuredExtractor struct{}

const structuredTier = "structured"

func (StructuredExtractor) Name() string { return structuredTier }

func (StructuredExtractor) Extract(place *Place, record *models.LocationRecord) bool {
	filled := false
	if record.Address == "" && place.DisplayName != "" {
		record.Address = place.DisplayName
		filled = true
	}
	if record.City == "" {
		if v := firstField(place.Address, cityFields); v != "" {
			record.City = v
			filled = true
		}
	}
	if record.State == "" {
		if v := strings.TrimSpace(place.Address["state"]); v != "" {
			record.State = v
			filled = true
		}
	}
	if record.Pincode == "" {
		if v := firstField(place.Address, postcodeFields); v != "" {
			record.Pincode = v
			filled = true
		}
	}
	return filled
}

func firstField(address map[string]string, fields []string) string {
	for _, field := range fields {
		if v := strings.TrimSpace(address[field]); v != "" {
			return v
		}
	}
	return ""
}

// PincodeExtractor pulls a standalone 6-digit token out of the formatted
// address.
type PincodeExtractor struct{}

func (PincodeExtractor) Name() string { return "pincode-pattern" }

func (PincodeExtractor) Extract(place *Place, record *models.LocationRecord) bool {
	if record.Pincode != "" {
		return false
	}
	match := pincodePattern.FindStringSubmatch(place.DisplayName)
	if match == nil {
		return false
	}
	record.Pincode = match[1]
	return true
}

// CityExtractor guesses the city from the comma separated formatted address,
// ignoring country, state and administrative segments and bare pincodes. The
// last remaining segment wins. A segment naming one of States fills an empty
// record state.
type CityExtractor struct {
	States []string
}

func (CityExtractor) Name() string { return "city-segments" }

func (e CityExtractor) Extract(place *Place, record *models.LocationRecord) bool {
	if record.City != "" {
		return false
	}
	state := strings.ToLower(record.State)
	var candidate, foundState string
	for _, segment := range strings.Split(place.DisplayName, ",") {
		segment = strings.TrimSpace(segment)
		lower := strings.ToLower(segment)
		if segment == "" || pincodeOnly.MatchString(segment) {
			continue
		}
		if state != "" && strings.Contains(lower, state) {
			continue
		}
		if name, ok := e.stateName(segment); ok {
			foundState = name
			continue
		}
		if containsAny(lower, segmentMarkers) {
			continue
		}
		candidate = segment
	}
	filled := false
	if record.State == "" && foundState != "" {
		record.State = foundState
		filled = true
	}
	if candidate != "" {
		record.City = candidate
		filled = true
	}
	return filled
}

func (e CityExtractor) stateName(segment string) (string, bool) {
	for _, name := range e.States {
		if strings.EqualFold(segment, name) {
			return name, true
		}
	}
	return "", false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// extractionChain applies the structured tier and then, when enabled, the
// heuristic tiers. Heuristic successes are logged so fragile regions can be
// spotted.
type extractionChain struct {
	structured Extractor
	heuristics []Extractor
}

func newExtractionChain(heuristics bool) extractionChain {
	chain := extractionChain{structured: StructuredExtractor{}}
	if heuristics {
		chain.heuristics = []Extractor{PincodeExtractor{}, CityExtractor{States: knownStates()}}
	}
	return chain
}

// knownStates lists the state names of the embedded gazetteer.
var knownStates = sync.OnceValue(func() []string {
	gazetteer, err := LoadGazetteer()
	if err != nil {
		log.Printf("Failed to load gazetteer state names: %v", err)
		return nil
	}
	return gazetteer.States()
})

// apply returns the name of the last tier that contributed.
func (c extractionChain) apply(place *Place, record *models.LocationRecord) string {
	tier := ""
	if c.structured.Extract(place, record) {
		tier = c.structured.Name()
	}
	for _, extractor := range c.heuristics {
		if extractor.Extract(place, record) {
			log.Printf("Heuristic extractor %s filled a field for %q", extractor.Name(), place.DisplayName)
			tier = extractor.Name()
		}
	}
	return tier
}
