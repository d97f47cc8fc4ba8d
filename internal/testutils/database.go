package testutils

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vendorhub/db"
	"vendorhub/internal/config"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func SetupTestDatabase(t *testing.T) (*sql.DB, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	testDB, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_timeout=10000")
	require.NoError(t, err)

	err = db.InitializeSchema(testDB)
	require.NoError(t, err)

	cleanup := func() {
		testDB.Close()
		os.RemoveAll(tempDir)
	}

	return testDB, cleanup
}

func SetupTestRepositoryFactory(t *testing.T) (*db.RepositoryFactory, func()) {
	testDB, cleanup := SetupTestDatabase(t)
	factory := db.NewRepositoryFactory(testDB, "vendorhub_test")
	return factory, cleanup
}

func GetTestConfig() *config.Config {
	return &config.Config{
		Port:                "0",
		DatabaseName:        "vendorhub_test",
		SQLitePath:          ":memory:",
		SessionSecret:       "test_session_secret_for_testing_only",
		AllowedOrigins:      []string{"*"},
		NominatimUserAgent:  "vendorhub-test",
		NominatimRatePerSec: 1000,
		GeocodeTimeout:      2 * time.Second,
		HeuristicExtraction: true,
		GeoCacheTTL:         24 * time.Hour,
		GeoCacheMaxEntries:  128,
		BrandName:           "VendorHub Marketplace",
		BrandColor:          "#4F46E5",
		SupportEmail:        "support@vendorhub.in",
	}
}
