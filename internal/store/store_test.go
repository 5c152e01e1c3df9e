// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"ecardfactory/internal/database"
	"ecardfactory/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "ecardfactory")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "ecardfactory")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testDate returns a date far enough in the future that no real plan or
// override touches it.
func testDate(day int) models.Date {
	return models.NewDate(2091, 3, day)
}

func cleanOverrides(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, n := range names {
			db.Exec("UPDATE daily_content_plan SET override_id = NULL WHERE override_id IN (SELECT id FROM theme_overrides WHERE theme_name = $1)", n)
			db.Exec("DELETE FROM theme_overrides WHERE theme_name = $1", n)
		}
	})
}

func cleanPlans(t *testing.T, db *sql.DB, dates ...models.Date) {
	t.Helper()
	t.Cleanup(func() {
		for _, d := range dates {
			db.Exec("DELETE FROM daily_content_plan WHERE plan_date = $1", d)
		}
	})
}

func cleanCards(t *testing.T, db *sql.DB, themeName string) {
	t.Helper()
	t.Cleanup(func() {
		db.Exec("DELETE FROM cards WHERE theme_name = $1", themeName)
	})
}

func mustCreateOverride(t *testing.T, s *ThemeStore, o models.ThemeOverride) *models.ThemeOverride {
	t.Helper()
	created, err := s.CreateOverride(context.Background(), &o)
	if err != nil {
		t.Fatalf("CreateOverride %q: %v", o.ThemeName, err)
	}
	return created
}
