package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBingSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Ocp-Apim-Subscription-Key"); got != "bing-key" {
			t.Errorf("key header = %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "golang" {
			t.Errorf("query = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"webPages": map[string]interface{}{
				"value": []map[string]string{
					{"name": "Go", "url": "https://go.dev", "snippet": "The Go language"},
					{"name": "Tour", "url": "https://go.dev/tour", "snippet": "A tour of Go"},
				},
			},
		})
	}))
	defer srv.Close()

	bing, err := NewBing("bing-key", WithBingBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewBing failed: %v", err)
	}

	results, err := bing.Search(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}
	if results[0].Title != "Go" || results[0].URL != "https://go.dev" {
		t.Errorf("result[0] = %+v", results[0])
	}
}

func TestBingNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{})
	}))
	defer srv.Close()

	bing, err := NewBing("bing-key", WithBingBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewBing failed: %v", err)
	}

	results, err := bing.Search(context.Background(), "xyzzy")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestBingRequiresKey(t *testing.T) {
	if _, err := NewBing(""); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestFetchExtractsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>T</title><style>body{}</style></head>` +
			`<body><script>var x=1;</script><p>Hello   world</p><p>Second para</p></body></html>`))
	}))
	defer srv.Close()

	f := NewPageFetcher()
	text := f.Fetch(context.Background(), srv.URL)
	if text != "Hello world Second para" {
		t.Errorf("text = %q", text)
	}
}

func TestFetchNon200ReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewPageFetcher()
	if text := f.Fetch(context.Background(), srv.URL); text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}

func TestFetchTimeoutReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	f := NewPageFetcher(WithFetchTimeout(20 * time.Millisecond))
	if text := f.Fetch(context.Background(), srv.URL); text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}

func TestFetchBadURLReturnsEmpty(t *testing.T) {
	f := NewPageFetcher()
	if text := f.Fetch(context.Background(), "http://127.0.0.1:0/nope"); text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}
