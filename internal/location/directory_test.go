package location

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGazetteer(t *testing.T) {
	g := mustGazetteer(t)

	states := g.States()
	assert.True(t, sort.StringsAreSorted(states))
	assert.Contains(t, states, "Chhattisgarh")

	assert.Equal(t, []string{"492001", "492004", "492007", "492010"}, g.Pincodes("chhattisgarh", "raipur"))
	assert.Nil(t, g.Cities("Atlantis"))
	assert.Nil(t, g.Pincodes("Chhattisgarh", "Atlantis"))

	pin, ok := g.SamplePincode("Chhattisgarh")
	require.True(t, ok)
	assert.Len(t, pin, 6)
}

func TestParseGazetteer_SortsInput(t *testing.T) {
	g, err := ParseGazetteer([]byte(`[
		{"state":"Zeta","cities":[{"city":"B","pincodes":["200002","200001"]},{"city":"A","pincodes":["100001"]}]},
		{"state":"Alpha","cities":[]}
	]`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha", "Zeta"}, g.States())
	assert.Equal(t, []string{"A", "B"}, g.Cities("Zeta"))
	assert.Equal(t, []string{"200001", "200002"}, g.Pincodes("Zeta", "B"))

	_, err = ParseGazetteer([]byte(`{`))
	assert.Error(t, err)
}

func TestDirectory_StaticOnly(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, 64)
	dir := NewDirectory(mustGazetteer(t), cache, nil, false)

	states := dir.States(ctx)
	assert.Equal(t, mustGazetteer(t).States(), states)

	cities := dir.Cities(ctx, "Chhattisgarh")
	assert.True(t, sort.StringsAreSorted(cities))
	assert.Contains(t, cities, "Raipur")

	assert.Empty(t, dir.Cities(ctx, "Atlantis"))
	assert.NotNil(t, dir.Cities(ctx, "Atlantis"))
	assert.Equal(t, []string{"492001", "492004", "492007", "492010"}, dir.Pincodes(ctx, "Chhattisgarh", "Raipur"))

	_, ok := cache.Get("cities_chhattisgarh")
	assert.True(t, ok)
	_, ok = cache.Get("pincodes_chhattisgarh_raipur")
	assert.True(t, ok)
}

func TestDirectory_NetworkFallback(t *testing.T) {
	ctx := context.Background()
	g := mustGazetteer(t)
	sample, ok := g.SamplePincode("Chhattisgarh")
	require.True(t, ok)

	postal := &fakePostal{
		byPincode: map[string][]PostOffice{
			sample: {
				{Name: "Ambikapur H.O", District: "Surguja", State: "Chhattisgarh", Pincode: "497001"},
				{Name: "Duplicate", District: "Raipur", State: "Chhattisgarh", Pincode: "492001"},
			},
		},
		byPostOffice: map[string][]PostOffice{
			"Raipur": {
				{Name: "Raipur H.O", District: "Raipur", State: "Chhattisgarh", Pincode: "492001"},
				{Name: "Shankar Nagar", District: "Raipur", State: "Chhattisgarh", Pincode: "492007"},
				{Name: "Mana Camp", District: "Raipur", State: "Chhattisgarh", Pincode: "492015"},
				{Name: "Raipur", District: "Raipur", State: "Uttar Pradesh", Pincode: "999999"},
			},
		},
	}
	cache, _ := newTestCache(t, 64)
	dir := NewDirectory(g, cache, postal, true)

	cities := dir.Cities(ctx, "Chhattisgarh")
	assert.Contains(t, cities, "Surguja")
	assert.Equal(t, 1, countOf(cities, "Raipur"))
	assert.True(t, sort.StringsAreSorted(cities))

	pincodes := dir.Pincodes(ctx, "Chhattisgarh", "Raipur")
	assert.Equal(t, []string{"492001", "492004", "492007", "492010", "492015"}, pincodes)

	calls := postal.calls
	dir.Pincodes(ctx, "Chhattisgarh", "Raipur")
	assert.Equal(t, calls, postal.calls)
}

func countOf(values []string, target string) int {
	n := 0
	for _, v := range values {
		if v == target {
			n++
		}
	}
	return n
}
