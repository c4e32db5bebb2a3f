package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sietev/posverdad/internal/apperr"
	"github.com/sietev/posverdad/internal/store"
)

const samplePayload = `{
  "items": [
    {
      "id": "a-1",
      "title": "Prueba 1: polaridad media",
      "url": "https://ejemplo.cl/nota/1",
      "source": "Fuente X",
      "published_at": "2024-05-10T12:00:00Z",
      "len_chars": 1200,
      "polarity": 0.1,
      "subjectivity": 0.3,
      "entities": [
        {"id": "e-1", "name": "Gabriel", "type": "PERSON"},
        {"id": "e-2", "name": "SieteV", "type": "ORG"}
      ]
    },
    {
      "id": "a-2",
      "title": "Prueba 2: negativa",
      "url": "https://ejemplo.cl/nota/2",
      "source": "Fuente Y",
      "published_at": "2024-05-11T12:00:00Z",
      "len_chars": 800,
      "polarity": -0.4,
      "subjectivity": 0.6,
      "entities": [
        {"id": "e-3", "name": "Chile", "type": "LOC"}
      ]
    }
  ],
  "total": 2
}`

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHTTPFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	items, total, err := NewHTTP(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("items=%d total=%d", len(items), total)
	}
	// Defaults normalized on decode.
	if items[0].Entities[0].Aliases == nil {
		t.Error("aliases not defaulted to empty slice")
	}
}

func TestHTTPFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, _, err := NewHTTP(srv.URL).Fetch(context.Background()); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestHTTPFetchMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items": "no"`))
	}))
	defer srv.Close()

	if _, _, err := NewHTTP(srv.URL).Fetch(context.Background()); err == nil {
		t.Fatal("expected error on malformed payload")
	}
}

func TestFileFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.json")
	if err := os.WriteFile(path, []byte(samplePayload), 0o644); err != nil {
		t.Fatal(err)
	}
	items, total, err := NewFile(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 || total != 2 {
		t.Fatalf("items=%d total=%d", len(items), total)
	}
}

func TestFileFetchInvalidArticle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.json")
	payload := `{"items": [{"id": "a-1", "title": "x", "url": "not absolute", "source": "s", "published_at": "2024-05-10T12:00:00Z"}]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := NewFile(path).Fetch(context.Background()); err == nil {
		t.Fatal("expected validation error for non-absolute URL")
	}
}

func TestLoadGateAndReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.json")
	if err := os.WriteFile(path, []byte(samplePayload), 0o644); err != nil {
		t.Fatal(err)
	}
	st := store.New()

	if err := Load(context.Background(), st, NewFile(path), discard()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.Loading() {
		t.Error("loading flag not reset after success")
	}
	if len(st.Snapshot().Items) != 2 {
		t.Error("items not stored")
	}

	// Failure path resets the flag too and keeps the old collection.
	if err := Load(context.Background(), st, NewFile(filepath.Join(t.TempDir(), "missing.json")), discard()); err == nil {
		t.Fatal("expected load failure")
	}
	if st.Loading() {
		t.Error("loading flag not reset after failure")
	}
	if len(st.Snapshot().Items) != 2 {
		t.Error("failed load clobbered the collection")
	}
}

func TestLoadRefusedWhileInFlight(t *testing.T) {
	st := store.New()
	if !st.BeginLoad() {
		t.Fatal("BeginLoad refused")
	}
	err := Load(context.Background(), st, NewFile("unused"), discard())
	if !errors.Is(err, apperr.ErrLoadInFlight) {
		t.Fatalf("err = %v, want ErrLoadInFlight", err)
	}
}
