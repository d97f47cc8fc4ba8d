package location

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"vendorhub/models"

	"github.com/gorilla/mux"
)

const unavailableAdvisory = "We could not look up an address for this location. The coordinates were saved and you can enter the address manually."

// SessionStore carries per-browser state: soft advisories and the client id
// used to order search requests.
type SessionStore interface {
	AddAdvisory(w http.ResponseWriter, r *http.Request, message string)
	ClientID(w http.ResponseWriter, r *http.Request) string
}

type LocationHandlers struct {
	Service  *LocationService
	Sessions SessionStore
}

func NewLocationHandlers(service *LocationService, sessions SessionStore) *LocationHandlers {
	return &LocationHandlers{Service: service, Sessions: sessions}
}

type resolveResponse struct {
	Location *models.LocationRecord `json:"location"`
	Warning  string                 `json:"warning,omitempty"`
}

func (h *LocationHandlers) GetStates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Directory.States(r.Context()))
}

func (h *LocationHandlers) GetCities(w http.ResponseWriter, r *http.Request) {
	state := mux.Vars(r)["state"]
	writeJSON(w, http.StatusOK, h.Service.Directory.Cities(r.Context(), state))
}

func (h *LocationHandlers) GetPincodes(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	writeJSON(w, http.StatusOK, h.Service.Directory.Pincodes(r.Context(), vars["state"], vars["city"]))
}

func (h *LocationHandlers) SearchLocations(w http.ResponseWriter, r *http.Request) {
	client := r.RemoteAddr
	if h.Sessions != nil {
		client = h.Sessions.ClientID(w, r)
	}

	results, err := h.Service.Tracker.Search(r.Context(), h.Service.Search, client, r.URL.Query().Get("q"))
	if errors.Is(err, ErrSuperseded) {
		writeJSONError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// ReverseGeocode resolves a map selection.
func (h *LocationHandlers) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil || ClassifyFix(models.DeviceFix{Latitude: lat, Longitude: lon}) != nil {
		writeJSONError(w, http.StatusBadRequest, "lat and lon must be valid coordinates")
		return
	}

	record, err := h.Service.Reverse.Resolve(r.Context(), lat, lon, FlowMap)
	h.writeResolution(w, r, record, err)
}

// CurrentLocation resolves a device fix reported by the browser.
func (h *LocationHandlers) CurrentLocation(w http.ResponseWriter, r *http.Request) {
	var fix models.DeviceFix
	if err := json.NewDecoder(r.Body).Decode(&fix); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := ClassifyFix(fix); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, FixMessage(err))
		return
	}

	record, err := h.Service.Reverse.ResolveFix(r.Context(), fix)
	h.writeResolution(w, r, record, err)
}

func (h *LocationHandlers) writeResolution(w http.ResponseWriter, r *http.Request, record *models.LocationRecord, err error) {
	resp := resolveResponse{Location: record}
	if errors.Is(err, ErrGeocodingUnavailable) {
		resp.Warning = unavailableAdvisory
		if h.Sessions != nil {
			h.Sessions.AddAdvisory(w, r, unavailableAdvisory)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Geocode resolves a free-text address.
func (h *LocationHandlers) Geocode(w http.ResponseWriter, r *http.Request) {
	record, err := h.Service.Forward.Geocode(r.Context(), r.URL.Query().Get("address"))
	switch {
	case errors.Is(err, ErrAddressNotFound):
		writeJSONError(w, http.StatusNotFound, "Address not found. Please try a different address.")
	case errors.Is(err, ErrRequestFailed):
		writeJSONError(w, http.StatusBadGateway, "Geocoding service is unavailable. Please try again later.")
	case err != nil:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, record)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
