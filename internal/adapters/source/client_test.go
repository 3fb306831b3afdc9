package source_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"visible_mx/internal/adapters/source"
)

func TestClient_FetchMenu_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode([]map[string]any{{"id": 5.0, "name_es": "Taco al Pastor"}})
		}
	}))
	defer ts.Close()

	cl, err := source.New(ts.URL, "", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := cl.FetchMenu(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0]["name_es"] != "Taco al Pastor" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_FetchTranslations_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, err := source.New(ts.URL, "", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = cl.FetchTranslations(ctx)
	if !errors.Is(err, source.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestClient_APIKeyHeader(t *testing.T) {
	var gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{"es":{},"en":{}}`))
	}))
	defer ts.Close()

	cl, err := source.New(ts.URL, "secret", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := cl.FetchTranslations(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotKey != "secret" {
		t.Fatalf("API key not sent, got %q", gotKey)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
	}))
	defer ts.Close()

	cl, err := source.New(ts.URL, "wrong", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err = cl.FetchPackages(context.Background())
	if !errors.Is(err, source.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestClient_RequiresBaseURL(t *testing.T) {
	if _, err := source.New("", "", 5); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}
