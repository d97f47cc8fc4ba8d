package location

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vendorhub/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	advisories []string
}

func (s *fakeSessions) AddAdvisory(w http.ResponseWriter, r *http.Request, message string) {
	s.advisories = append(s.advisories, message)
}

func (s *fakeSessions) ClientID(w http.ResponseWriter, r *http.Request) string {
	return "test-client"
}

func setupLocationRouter(t *testing.T, open *fakeOpen) (*mux.Router, *fakeSessions) {
	cache, _ := newTestCache(t, 64)
	g := mustGazetteer(t)
	tracker, err := NewSearchTracker(16)
	require.NoError(t, err)

	service := &LocationService{
		Cache:     cache,
		Gazetteer: g,
		Directory: NewDirectory(g, cache, nil, false),
		Search:    NewSearchIndex(g, cache, nil, false),
		Tracker:   tracker,
		Reverse:   NewReverseGeocoder(nil, open, cache, true),
		Forward:   NewForwardGeocoder(open, cache, true),
	}
	sessions := &fakeSessions{}
	h := NewLocationHandlers(service, sessions)

	r := mux.NewRouter()
	r.HandleFunc("/api/locations/states", h.GetStates).Methods("GET")
	r.HandleFunc("/api/locations/states/{state}/cities", h.GetCities).Methods("GET")
	r.HandleFunc("/api/locations/states/{state}/cities/{city}/pincodes", h.GetPincodes).Methods("GET")
	r.HandleFunc("/api/locations/search", h.SearchLocations).Methods("GET")
	r.HandleFunc("/api/locations/reverse", h.ReverseGeocode).Methods("GET")
	r.HandleFunc("/api/locations/current", h.CurrentLocation).Methods("POST")
	r.HandleFunc("/api/locations/geocode", h.Geocode).Methods("GET")
	return r, sessions
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLocationHandlers_Enumeration(t *testing.T) {
	r, _ := setupLocationRouter(t, &fakeOpen{place: pandri})

	t.Run("states", func(t *testing.T) {
		rec := serve(r, "GET", "/api/locations/states", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		var states []string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &states))
		assert.Contains(t, states, "Chhattisgarh")
	})

	t.Run("cities", func(t *testing.T) {
		rec := serve(r, "GET", "/api/locations/states/Chhattisgarh/cities", "")
		var cities []string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cities))
		assert.Contains(t, cities, "Raipur")
	})

	t.Run("unknown state is an empty list", func(t *testing.T) {
		rec := serve(r, "GET", "/api/locations/states/Atlantis/cities", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("pincodes", func(t *testing.T) {
		rec := serve(r, "GET", "/api/locations/states/Chhattisgarh/cities/Raipur/pincodes", "")
		assert.JSONEq(t, `["492001","492004","492007","492010"]`, rec.Body.String())
	})
}

func TestLocationHandlers_Search(t *testing.T) {
	r, _ := setupLocationRouter(t, &fakeOpen{place: pandri})

	rec := serve(r, "GET", "/api/locations/search?q=ra", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = serve(r, "GET", "/api/locations/search?q=raipur", "")
	var matches []models.PlaceMatch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	assert.Len(t, matches, 4)
}

func TestLocationHandlers_Reverse(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		r, sessions := setupLocationRouter(t, &fakeOpen{place: pandri})
		rec := serve(r, "GET", "/api/locations/reverse?lat=21.2514&lon=81.6296", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp resolveResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Raipur", resp.Location.City)
		assert.Empty(t, resp.Warning)
		assert.Empty(t, sessions.advisories)
	})

	t.Run("placeholder adds advisory", func(t *testing.T) {
		r, sessions := setupLocationRouter(t, &fakeOpen{err: errors.New("down")})
		rec := serve(r, "GET", "/api/locations/reverse?lat=19.07&lon=72.87", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp resolveResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Location at 19.070000, 72.870000", resp.Location.Address)
		assert.NotEmpty(t, resp.Warning)
		assert.Len(t, sessions.advisories, 1)
	})

	t.Run("bad coordinates", func(t *testing.T) {
		r, _ := setupLocationRouter(t, &fakeOpen{place: pandri})
		assert.Equal(t, http.StatusBadRequest, serve(r, "GET", "/api/locations/reverse?lat=abc&lon=1", "").Code)
		assert.Equal(t, http.StatusBadRequest, serve(r, "GET", "/api/locations/reverse?lat=95&lon=1", "").Code)
	})
}

func TestLocationHandlers_CurrentLocation(t *testing.T) {
	r, _ := setupLocationRouter(t, &fakeOpen{place: pandri})

	t.Run("fix resolved", func(t *testing.T) {
		rec := serve(r, "POST", "/api/locations/current", `{"latitude":21.2514,"longitude":81.6296,"accuracy":15}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp resolveResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Location.Accuracy)
		assert.Equal(t, 15.0, *resp.Location.Accuracy)
	})

	t.Run("permission denied", func(t *testing.T) {
		rec := serve(r, "POST", "/api/locations/current", `{"permission":"denied"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "permission denied")
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := serve(r, "POST", "/api/locations/current", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLocationHandlers_Geocode(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		r, _ := setupLocationRouter(t, &fakeOpen{})
		rec := serve(r, "GET", "/api/locations/geocode?address=nowhere", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Address not found")
	})

	t.Run("provider failure", func(t *testing.T) {
		r, _ := setupLocationRouter(t, &fakeOpen{err: errors.New("down")})
		rec := serve(r, "GET", "/api/locations/geocode?address=Raipur", "")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("found", func(t *testing.T) {
		r, _ := setupLocationRouter(t, &fakeOpen{places: []Place{{Lat: "21.25", Lon: "81.63", DisplayName: "Raipur, Chhattisgarh, India", Address: map[string]string{"city": "Raipur", "state": "Chhattisgarh"}}}})
		rec := serve(r, "GET", "/api/locations/geocode?address=Raipur", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var record models.LocationRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
		assert.Equal(t, "Raipur", record.City)
	})
}
