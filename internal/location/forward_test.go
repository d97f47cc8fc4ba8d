package location

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardGeocoder(t *testing.T) {
	ctx := context.Background()

	t.Run("best match with coordinates", func(t *testing.T) {
		cache, _ := newTestCache(t, 16)
		open := &fakeOpen{places: []Place{{
			Lat:         "21.2514",
			Lon:         "81.6296",
			DisplayName: "Pandri, Raipur, Chhattisgarh, 492001, India",
			Address:     map[string]string{"city": "Raipur", "state": "Chhattisgarh", "postcode": "492001"},
		}}}
		geocoder := NewForwardGeocoder(open, cache, true)

		record, err := geocoder.Geocode(ctx, "Pandri Raipur")
		require.NoError(t, err)
		require.NotNil(t, record.Latitude)
		assert.Equal(t, 21.2514, *record.Latitude)
		assert.Equal(t, 81.6296, *record.Longitude)
		assert.Equal(t, "Raipur", record.City)
		assert.Equal(t, SourceOpen, record.Source)

		_, err = geocoder.Geocode(ctx, "pandri raipur")
		require.NoError(t, err)
		assert.Equal(t, 1, open.search, "lookup is cached case-insensitively")
	})

	t.Run("no results", func(t *testing.T) {
		geocoder := NewForwardGeocoder(&fakeOpen{}, nil, true)
		_, err := geocoder.Geocode(ctx, "nowhere at all")
		assert.ErrorIs(t, err, ErrAddressNotFound)
	})

	t.Run("blank query", func(t *testing.T) {
		open := &fakeOpen{}
		geocoder := NewForwardGeocoder(open, nil, true)
		_, err := geocoder.Geocode(ctx, "   ")
		assert.ErrorIs(t, err, ErrAddressNotFound)
		assert.Equal(t, 0, open.search)
	})

	t.Run("provider failure", func(t *testing.T) {
		geocoder := NewForwardGeocoder(&fakeOpen{err: errors.New("dial tcp: timeout")}, nil, true)
		_, err := geocoder.Geocode(ctx, "Raipur")
		assert.ErrorIs(t, err, ErrRequestFailed)
		assert.NotErrorIs(t, err, ErrAddressNotFound)
	})
}
