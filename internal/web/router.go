package web

import (
	"net/http"

	"vendorhub/internal/config"
	"vendorhub/internal/invoice"
	"vendorhub/internal/location"
	"vendorhub/middleware"

	"github.com/gorilla/mux"
)

// Handlers bundles everything the router dispatches to.
type Handlers struct {
	Invoices  *invoice.InvoiceHandlers
	Locations *location.LocationHandlers
	Sessions  *SessionStore
}

// NewRouter wires the HTTP surface. Invoice routes require a bearer token
// that is forwarded to the marketplace backend; location routes are public.
func NewRouter(cfg *config.Config, h Handlers) http.Handler {
	r := mux.NewRouter()
	mw := middleware.NewMiddleware(cfg)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Invoices
	subscriptions := api.PathPrefix("/subscriptions").Subrouter()
	subscriptions.Use(mw.AuthMiddleware)
	subscriptions.HandleFunc("/{id}/invoice", h.Invoices.GetInvoice).Methods("GET")
	subscriptions.HandleFunc("/{id}/invoice/view", h.Invoices.ViewInvoice).Methods("GET")
	subscriptions.HandleFunc("/{id}/invoice/pdf", h.Invoices.DownloadInvoicePDF).Methods("GET")
	subscriptions.HandleFunc("/{id}/invoice/print", h.Invoices.PrintInvoice).Methods("GET")

	invoices := api.PathPrefix("/invoices").Subrouter()
	invoices.Use(mw.AuthMiddleware)
	invoices.HandleFunc("/render", h.Invoices.RenderInvoice).Methods("POST")

	// Locations
	locations := api.PathPrefix("/locations").Subrouter()
	locations.HandleFunc("/states", h.Locations.GetStates).Methods("GET")
	locations.HandleFunc("/states/{state}/cities", h.Locations.GetCities).Methods("GET")
	locations.HandleFunc("/states/{state}/cities/{city}/pincodes", h.Locations.GetPincodes).Methods("GET")
	locations.HandleFunc("/search", h.Locations.SearchLocations).Methods("GET")
	locations.HandleFunc("/reverse", h.Locations.ReverseGeocode).Methods("GET")
	locations.HandleFunc("/current", h.Locations.CurrentLocation).Methods("POST")
	locations.HandleFunc("/geocode", h.Locations.Geocode).Methods("GET")

	api.HandleFunc("/advisories", h.Sessions.HandleAdvisories).Methods("GET")

	cors := middleware.SetupCORS(cfg.AllowedOrigins)
	return middleware.LoggingMiddleware(cors(r))
}
