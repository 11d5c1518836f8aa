package testutil

import (
	"database/sql"
	"episcrape/lib/telemetry"
	"fmt"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

type DBParams struct {
	Name string
	// if unspecified, it will skip creating tables
	Schema string
}

// SetupDB prepares test logging and opens a private in-memory sqlite
// database with params.Schema applied.
func SetupDB(t testing.TB, params DBParams) (*sql.DB, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	sqlite, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	sqlite.SetMaxOpenConns(1)
	if params.Schema != "" {
		_, err = sqlite.Exec(params.Schema)
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			t.Fatal(err)
		}
	}

	return sqlite, func() {
		sqlite.Close()
		cleanup()
	}
}
