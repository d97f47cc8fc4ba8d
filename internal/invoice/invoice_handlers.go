package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path"
	"strconv"
	"strings"

	"vendorhub/internal/backend"
	"vendorhub/middleware"
	"vendorhub/models"

	"github.com/gorilla/mux"
)

type InvoiceHandlers struct {
	Service *InvoiceService
}

func NewInvoiceHandlers(service *InvoiceService) *InvoiceHandlers {
	return &InvoiceHandlers{Service: service}
}

func (h *InvoiceHandlers) load(w http.ResponseWriter, r *http.Request) (*models.InvoiceData, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid subscription id")
		return nil, false
	}

	invoice, err := h.Service.Load(r.Context(), id, middleware.TokenFromContext(r.Context()))
	switch {
	case err == nil:
		return invoice, true
	case errors.Is(err, backend.ErrUnauthorized):
		writeJSONError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, backend.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "invoice not found")
	case errors.Is(err, ErrSnapshotConflict):
		writeJSONError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("Failed to load invoice for subscription %d: %v", id, err)
		writeJSONError(w, http.StatusBadGateway, "failed to load invoice")
	}
	return nil, false
}

// GetInvoice returns the invoice record as JSON.
func (h *InvoiceHandlers) GetInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, ok := h.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invoice)
}

// ViewInvoice renders the HTML view with preview, download and print links.
func (h *InvoiceHandlers) ViewInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, ok := h.load(w, r)
	if !ok {
		return
	}

	base := strings.TrimSuffix(r.URL.Path, "/view")
	actions := ViewActions{
		PreviewURL:  base + "/pdf?inline=1",
		DownloadURL: base + "/pdf",
	}
	if h.Service.Printer.Enabled() {
		actions.PrintURL = base + "/print"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Service.View.Render(w, invoice, actions); err != nil {
		log.Printf("Failed to render invoice view %s: %v", invoice.InvoiceNumber, err)
		http.Error(w, "failed to render invoice", http.StatusInternalServerError)
	}
}

// DownloadInvoicePDF streams the layout-engine PDF.
func (h *InvoiceHandlers) DownloadInvoicePDF(w http.ResponseWriter, r *http.Request) {
	invoice, ok := h.load(w, r)
	if !ok {
		return
	}
	h.writePDF(w, r, invoice)
}

// RenderInvoice lays out an invoice posted in the request body.
func (h *InvoiceHandlers) RenderInvoice(w http.ResponseWriter, r *http.Request) {
	var invoice models.InvoiceData
	if err := json.NewDecoder(r.Body).Decode(&invoice); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := invoice.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writePDF(w, r, &invoice)
}

func (h *InvoiceHandlers) writePDF(w http.ResponseWriter, r *http.Request, invoice *models.InvoiceData) {
	doc, err := h.Service.GeneratePDF(invoice, sanitizeFilename(r.URL.Query().Get("filename")))
	if err != nil {
		log.Printf("Failed to generate invoice PDF %s: %v", invoice.InvoiceNumber, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to generate invoice")
		return
	}

	disposition := "attachment"
	if r.URL.Query().Get("inline") == "1" {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Bytes())))
	doc.WriteTo(w)
}

// PrintInvoice returns the browser-printed PDF of the HTML view.
func (h *InvoiceHandlers) PrintInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, ok := h.load(w, r)
	if !ok {
		return
	}

	data, err := h.Service.PrintView(r.Context(), invoice)
	if errors.Is(err, ErrPrinterDisabled) {
		writeJSONError(w, http.StatusNotImplemented, err.Error())
		return
	}
	if err != nil {
		log.Printf("Failed to print invoice %s: %v", invoice.InvoiceNumber, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to print invoice")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", DefaultFilename(invoice.SubscriptionID)))
	w.Write(data)
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.TrimSpace(strings.ReplaceAll(name, "\\", "/")))
	if name == "." || name == "/" || name == "" {
		return ""
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
