package location

import (
	"context"
	"errors"
	"testing"

	"vendorhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePostal struct {
	byPincode    map[string][]PostOffice
	byPostOffice map[string][]PostOffice
	err          error
	calls        int
}

func (p *fakePostal) ByPincode(ctx context.Context, pincode string) ([]PostOffice, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.byPincode[pincode], nil
}

func (p *fakePostal) ByPostOffice(ctx context.Context, name string) ([]PostOffice, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.byPostOffice[name], nil
}

func mustGazetteer(t *testing.T) *Gazetteer {
	g, err := LoadGazetteer()
	require.NoError(t, err)
	return g
}

func TestSearchIndex_MinimumLength(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, 64)
	index := NewSearchIndex(mustGazetteer(t), cache, nil, false)

	assert.Empty(t, index.Search(ctx, "ra"))
	assert.NotNil(t, index.Search(ctx, "ra"))
	assert.Empty(t, index.Search(ctx, "  r "))

	results := index.Search(ctx, "rai")
	assert.Contains(t, results, models.PlaceMatch{State: "Chhattisgarh", City: "Raipur", Pincode: "492001"})
	assert.LessOrEqual(t, len(results), MaxSearchResults)
}

func TestSearchIndex_Matching(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, 64)
	index := NewSearchIndex(mustGazetteer(t), cache, nil, false)

	t.Run("case insensitive city match returns every pincode of the city", func(t *testing.T) {
		results := index.Search(ctx, "RAIPUR")
		assert.Equal(t, []models.PlaceMatch{
			{State: "Chhattisgarh", City: "Raipur", Pincode: "492001"},
			{State: "Chhattisgarh", City: "Raipur", Pincode: "492004"},
			{State: "Chhattisgarh", City: "Raipur", Pincode: "492007"},
			{State: "Chhattisgarh", City: "Raipur", Pincode: "492010"},
		}, results)
	})

	t.Run("pincode match", func(t *testing.T) {
		results := index.Search(ctx, "49200")
		require.NotEmpty(t, results)
		for _, r := range results {
			assert.Equal(t, "Raipur", r.City)
		}
	})

	t.Run("state match is capped", func(t *testing.T) {
		results := index.Search(ctx, "chhattisgarh")
		assert.Len(t, results, MaxSearchResults)
		for _, r := range results {
			assert.Equal(t, "Chhattisgarh", r.State)
		}
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, index.Search(ctx, "zzzz"))
	})
}

func TestSearchIndex_NetworkFallback(t *testing.T) {
	ctx := context.Background()
	postal := &fakePostal{byPostOffice: map[string][]PostOffice{
		"Tilda": {
			{Name: "Tilda", District: "Raipur", State: "Chhattisgarh", Pincode: "493114"},
			{Name: "Tilda Neora", District: "Raipur", State: "Chhattisgarh", Pincode: "493114"},
		},
	}}

	t.Run("merges provider results once per query", func(t *testing.T) {
		cache, _ := newTestCache(t, 64)
		index := NewSearchIndex(mustGazetteer(t), cache, postal, true)

		results := index.Search(ctx, "Tilda")
		assert.Equal(t, []models.PlaceMatch{{State: "Chhattisgarh", City: "Raipur", Pincode: "493114"}}, results)
		assert.Equal(t, 1, postal.calls)

		index.Search(ctx, "Tilda")
		assert.Equal(t, 1, postal.calls, "second search is served from cache")
	})

	t.Run("disabled fallback never calls provider", func(t *testing.T) {
		cache, _ := newTestCache(t, 64)
		calls := postal.calls
		index := NewSearchIndex(mustGazetteer(t), cache, postal, false)
		assert.Empty(t, index.Search(ctx, "Tilda"))
		assert.Equal(t, calls, postal.calls)
	})

	t.Run("provider failure degrades to gazetteer", func(t *testing.T) {
		cache, _ := newTestCache(t, 64)
		index := NewSearchIndex(mustGazetteer(t), cache, &fakePostal{err: errors.New("timeout")}, true)
		results := index.Search(ctx, "raipur")
		assert.Len(t, results, 4)
	})
}

func TestSearchTracker(t *testing.T) {
	tracker, err := NewSearchTracker(8)
	require.NoError(t, err)

	first := tracker.Begin("client-a")
	second := tracker.Begin("client-a")
	other := tracker.Begin("client-b")

	assert.False(t, tracker.IsLatest("client-a", first))
	assert.True(t, tracker.IsLatest("client-a", second))
	assert.True(t, tracker.IsLatest("client-b", other))
	assert.False(t, tracker.IsLatest("client-c", 1))
}

// slowPostal starts a newer search for the same client while the first one
// is still in flight.
type slowPostal struct {
	fakePostal
	onCall func()
}

func (p *slowPostal) ByPostOffice(ctx context.Context, name string) ([]PostOffice, error) {
	if p.onCall != nil {
		p.onCall()
	}
	return nil, nil
}

func TestSearchTracker_DiscardsSupersededResults(t *testing.T) {
	ctx := context.Background()
	tracker, err := NewSearchTracker(8)
	require.NoError(t, err)
	cache, _ := newTestCache(t, 64)

	postal := &slowPostal{}
	index := NewSearchIndex(mustGazetteer(t), cache, postal, true)
	postal.onCall = func() { tracker.Begin("client-a") }

	_, err = tracker.Search(ctx, index, "client-a", "Tilda")
	assert.ErrorIs(t, err, ErrSuperseded)

	postal.onCall = nil
	results, err := tracker.Search(ctx, index, "client-a", "raipur")
	require.NoError(t, err)
	assert.Len(t, results, 4)
}
