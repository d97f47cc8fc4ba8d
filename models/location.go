package models

import "time"

// LocationRecord is a resolved point or place. Coordinates are absent for
// entries that come from a name search against the static gazetteer.
type LocationRecord struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Address   string   `json:"address"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Pincode   string   `json:"pincode"`
	Source    string   `json:"source,omitempty"` // "premium", "open", "heuristic", "placeholder"
}

// PlaceMatch is one row of a location search.
type PlaceMatch struct {
	State   string `json:"state"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

// GazetteerCity lists the pincodes of one city within a state.
type GazetteerCity struct {
	City     string   `json:"city"`
	Pincodes []string `json:"pincodes"`
}

// GazetteerState is one state of the embedded reference table.
type GazetteerState struct {
	State  string          `json:"state"`
	Cities []GazetteerCity `json:"cities"`
}

// CacheEntry is a memoised resolution result.
type CacheEntry struct {
	Key       string    `json:"key"`
	Value     any       `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// GeocodeCacheRow stores a cache entry in SQLite.
type GeocodeCacheRow struct {
	ID        string    `db:"id" json:"id"`
	Key       string    `db:"cache_key" json:"key"`
	Value     []byte    `db:"value" json:"value"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

type PermissionState string

const (
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
	PermissionPrompt  PermissionState = "prompt"
)

// DeviceFix is the result of a device geolocation request as reported by the
// client. ErrorCode follows the browser PositionError codes (1 denied,
// 2 unavailable, 3 timeout); 0 means a fix was obtained.
type DeviceFix struct {
	Latitude   float64         `json:"latitude"`
	Longitude  float64         `json:"longitude"`
	Accuracy   float64         `json:"accuracy"`
	Permission PermissionState `json:"permission"`
	ErrorCode  int             `json:"errorCode"`
	Supported  *bool           `json:"supported,omitempty"`
}
