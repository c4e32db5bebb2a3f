// Package testutil provides shared test helpers for setting up state
// databases and seeded stores.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/sietev/posverdad/internal/models"
	"github.com/sietev/posverdad/internal/state"
	"github.com/sietev/posverdad/internal/store"
)

// TestDB creates a temporary SQLite state database that is automatically
// cleaned up.
func TestDB(t *testing.T) *state.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "posverdad-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := state.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// SampleArticles returns the two-article fixture collection used across
// test suites.
func SampleArticles() []models.Article {
	return []models.Article{
		{
			ID: "a-1",
			Title: "Noticia uno",
			URL: "https://example.com/uno",
			Source: "Fuente X",
			PublishedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			LenChars: 1200,
			Polarity: 0.1,
			Subjectivity: 0.5,
			Entities: []models.Entity{
				{ID: "e-1", Name: "Gabriel", Type: models.EntityPerson, Aliases: []string{}},
				{ID: "e-2", Name: "SieteV", Type: models.EntityOrg, Aliases: []string{}},
			},
		},
		{
			ID: "a-2",
			Title: "Noticia dos",
			URL: "https://example.com/dos",
			Source: "Fuente Y",
			PublishedAt: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC),
			LenChars: 800,
			Polarity: -0.4,
			Subjectivity: 0.2,
			Entities: []models.Entity{
				{ID: "e-3", Name: "Chile", Type: models.EntityGPE, Aliases: []string{}},
			},
		},
	}
}

// SeededStore creates a store preloaded with the sample collection.
func SeededStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	items := SampleArticles()
	if !st.BeginLoad() {
		t.Fatal("BeginLoad refused on fresh store")
	}
	st.FinishLoad(items, len(items))
	return st
}
