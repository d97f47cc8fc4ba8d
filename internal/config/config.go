package config

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DatabaseName string
	SQLitePath   string

	// Auth and sessions
	JwtKey         []byte
	SessionSecret  string
	AllowedOrigins []string

	// External marketplace backend (Strapi)
	BackendURL string

	// Geocoding providers
	GoogleMapsAPIKey    string
	GoogleMapsURL       string
	NominatimURL        string
	NominatimUserAgent  string
	NominatimRatePerSec float64
	PostalAPIURL        string
	GeocodeTimeout      time.Duration

	// Location resolution behaviour
	LocationNetworkFallback bool
	HeuristicExtraction     bool
	GeoCacheTTL             time.Duration
	GeoCacheMaxEntries      int
	GeoCachePersist         bool

	// Invoice rendering
	BrandName        string
	BrandColor       string
	SupportEmail     string
	ChromePDFEnabled bool
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded (%v), using process environment", err)
	}

	databaseName := getEnvOrDefault("DATABASE_NAME", "vendorhub")

	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = filepath.Join("data", fmt.Sprintf("%s.db", databaseName))
	}

	timeout, err := getDuration("GEOCODE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	ttl, err := getDuration("GEOCACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	maxEntries, err := getInt("GEOCACHE_MAX_ENTRIES", 4096)
	if err != nil {
		return nil, err
	}
	rate, err := getFloat("NOMINATIM_RATE_PER_SEC", 1)
	if err != nil {
		return nil, err
	}
	sessionSecret, err := sessionSecretFromEnv()
	if err != nil {
		return nil, err
	}

	config := &Config{
		Port:         getEnvOrDefault("PORT", "3008"),
		DatabaseName: databaseName,
		SQLitePath:   sqlitePath,

		SessionSecret:  sessionSecret,
		AllowedOrigins: splitList(getEnvOrDefault("ALLOWED_ORIGINS", "*")),

		BackendURL: strings.TrimRight(getEnvOrDefault("BACKEND_URL", "http://localhost:1337"), "/"),

		GoogleMapsAPIKey:    os.Getenv("GOOGLE_MAPS_API_KEY"),
		GoogleMapsURL:       strings.TrimRight(getEnvOrDefault("GOOGLE_MAPS_URL", "https://maps.googleapis.com"), "/"),
		NominatimURL:        strings.TrimRight(getEnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"), "/"),
		NominatimUserAgent:  getEnvOrDefault("NOMINATIM_USER_AGENT", "vendorhub-admin/1.0"),
		NominatimRatePerSec: rate,
		PostalAPIURL:        strings.TrimRight(getEnvOrDefault("POSTAL_API_URL", "https://api.postalpincode.in"), "/"),
		GeocodeTimeout:      timeout,

		LocationNetworkFallback: getBool("LOCATION_NETWORK_FALLBACK", false),
		HeuristicExtraction:     getBool("HEURISTIC_EXTRACTION", true),
		GeoCacheTTL:             ttl,
		GeoCacheMaxEntries:      maxEntries,
		GeoCachePersist:         getBool("GEOCACHE_PERSIST", true),

		BrandName:        getEnvOrDefault("INVOICE_BRAND_NAME", "VendorHub Marketplace"),
		BrandColor:       getEnvOrDefault("INVOICE_BRAND_COLOR", "#4F46E5"),
		SupportEmail:     getEnvOrDefault("INVOICE_SUPPORT_EMAIL", "support@vendorhub.in"),
		ChromePDFEnabled: getBool("CHROME_PDF_ENABLED", false),
	}

	if jwtSecret := os.Getenv("JWT_SECRET_KEY"); jwtSecret != "" {
		config.JwtKey = []byte(jwtSecret)
	}

	return config, nil
}

// sessionSecretFromEnv returns SESSION_SECRET, or a random key when it is
// unset. Sessions signed with a random key do not survive a restart.
func sessionSecretFromEnv() (string, error) {
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		return secret, nil
	}
	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return "", fmt.Errorf("failed to generate session secret")
	}
	log.Println("SESSION_SECRET is not set, using a random key; sessions end on restart")
	return hex.EncodeToString(key), nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean for %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return parsed, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return parsed, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
