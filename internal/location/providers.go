package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vendorhub/models"

	"golang.org/x/net/context/ctxhttp"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds every provider call.
const DefaultTimeout = 5 * time.Second

// errNoResult marks a provider response that carried nothing usable.
var errNoResult = errors.New("provider returned no result")

// Place is one result of the open geocoding provider.
type Place struct {
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}

// PremiumGeocoder is a key-based provider returning structured address
// components.
type PremiumGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (*models.LocationRecord, error)
}

// OpenGeocoder is the free provider used as fallback and for forward search.
type OpenGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*Place, error)
	Search(ctx context.Context, query string) ([]Place, error)
}

// PostalDirectory looks up Indian post offices.
type PostalDirectory interface {
	ByPincode(ctx context.Context, pincode string) ([]PostOffice, error)
	ByPostOffice(ctx context.Context, name string) ([]PostOffice, error)
}

func getJSON(ctx context.Context, client *http.Client, timeout time.Duration, rawURL string, headers map[string]string, target interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := ctxhttp.Do(ctx, client, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// GoogleGeocoder calls the Google Maps reverse geocoding API.
type GoogleGeocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewGoogleGeocoder(apiKey, baseURL string, timeout time.Duration) *GoogleGeocoder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GoogleGeocoder{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		timeout: timeout,
	}
}

type googleResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress  string `json:"formatted_address"`
		AddressComponents []struct {
			LongName string   `json:"long_name"`
			Types    []string `json:"types"`
		} `json:"address_components"`
	} `json:"results"`
}

func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (*models.LocationRecord, error) {
	params := url.Values{}
	params.Set("latlng", formatCoord(lat)+","+formatCoord(lon))
	params.Set("key", g.apiKey)

	var resp googleResponse
	if err := getJSON(ctx, g.client, g.timeout, g.baseURL+"/maps/api/geocode/json?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" || len(resp.Results) == 0 {
		return nil, fmt.Errorf("%w: status %s", errNoResult, resp.Status)
	}

	result := resp.Results[0]
	record := &models.LocationRecord{Address: result.FormattedAddress}
	var district string
	for _, component := range result.AddressComponents {
		for _, t := range component.Types {
			switch t {
			case "locality":
				record.City = component.LongName
			case "administrative_area_level_2":
				district = component.LongName
			case "administrative_area_level_1":
				record.State = component.LongName
			case "postal_code":
				record.Pincode = component.LongName
			}
		}
	}
	if record.City == "" {
		record.City = district
	}
	return record, nil
}

// NominatimGeocoder calls an OpenStreetMap Nominatim instance. Requests are
// paced by a limiter to respect the public usage policy.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	timeout   time.Duration
}

func NewNominatimGeocoder(baseURL, userAgent string, perSecond float64, timeout time.Duration) *NominatimGeocoder {
	if perSecond <= 0 {
		perSecond = 1
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &NominatimGeocoder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{},
		limiter:   rate.NewLimiter(rate.Limit(perSecond), 1),
		timeout:   timeout,
	}
}

// get waits for the limiter and performs the request under one timeout, so a
// queued call never takes longer than n.timeout in total.
func (n *NominatimGeocoder) get(ctx context.Context, path string, params url.Values, target interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	headers := map[string]string{"User-Agent": n.userAgent, "Accept-Language": "en"}
	return getJSON(ctx, n.client, n.timeout, n.baseURL+path+"?"+params.Encode(), headers, target)
}

func (n *NominatimGeocoder) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	params := url.Values{}
	params.Set("lat", formatCoord(lat))
	params.Set("lon", formatCoord(lon))

	var place Place
	if err := n.get(ctx, "/reverse", params, &place); err != nil {
		return nil, err
	}
	if place.DisplayName == "" && len(place.Address) == 0 {
		return nil, errNoResult
	}
	return &place, nil
}

func (n *NominatimGeocoder) Search(ctx context.Context, query string) ([]Place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "1")
	params.Set("countrycodes", "in")

	var places []Place
	if err := n.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// PostOffice is one entry of the India Post pincode directory.
type PostOffice struct {
	Name     string `json:"Name"`
	District string `json:"District"`
	State    string `json:"State"`
	Pincode  string `json:"Pincode"`
}

type postalResponse struct {
	Status     string       `json:"Status"`
	PostOffice []PostOffice `json:"PostOffice"`
}

// PostalClient queries api.postalpincode.in style endpoints.
type PostalClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewPostalClient(baseURL string, timeout time.Duration) *PostalClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PostalClient{baseURL: strings.TrimRight(baseURL, "/"), client: &http.Client{}, timeout: timeout}
}

func (p *PostalClient) lookup(ctx context.Context, path string) ([]PostOffice, error) {
	var resp []postalResponse
	if err := getJSON(ctx, p.client, p.timeout, p.baseURL+path, nil, &resp); err != nil {
		return nil, err
	}
	var offices []PostOffice
	for _, r := range resp {
		if strings.EqualFold(r.Status, "Success") {
			offices = append(offices, r.PostOffice...)
		}
	}
	return offices, nil
}

func (p *PostalClient) ByPincode(ctx context.Context, pincode string) ([]PostOffice, error) {
	return p.lookup(ctx, "/pincode/"+url.PathEscape(pincode))
}

func (p *PostalClient) ByPostOffice(ctx context.Context, name string) ([]PostOffice, error) {
	return p.lookup(ctx, "/postoffice/"+url.PathEscape(name))
}
