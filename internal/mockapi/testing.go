package mockapi

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"floradmin/internal/db"
)

// TestPassword is the password of every seeded user in RunT.
const TestPassword = "admin123"

// RunT starts a seeded double over a private in-memory database and stops
// it when the test ends. The returned URL includes BasePath.
func RunT(t testing.TB) (*Server, string, *SeedData) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gormDB, err := db.NewSQLite("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	s := New(gormDB, "test-secret", nil)
	seed, err := s.Seed(context.Background(), TestPassword)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	srv := httptest.NewServer(s)
	t.Cleanup(func() {
		srv.Close()
		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return s, srv.URL + BasePath, seed
}
