package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/graph.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"nodes":[]}`))
	})
	r.Get("/contents", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			http.Error(w, `{"message":"API rate limit exceeded"}`, http.StatusForbidden)
			return
		}
		w.Write([]byte(`[{"name":"a@x1.md","type":"file"},{"name":"image.png"}]`))
	})
	r.Get("/raw/{name}", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "name") {
		case "a@x1.md":
			w.Write([]byte("Alpha"))
		case "slow@x.md":
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte("late"))
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c := NewClient(Options{
		GraphURL:   srv.URL + "/graph.json",
		ListingURL: srv.URL + "/contents",
		RawBaseURL: srv.URL + "/raw/",
		Token:      "secret",
		Timeout:    2 * time.Second,
	})
	t.Cleanup(c.Close)
	return srv, c
}

func TestClient_Graph(t *testing.T) {
	_, c := newTestServer(t)
	data, err := c.Graph(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"nodes":[]}` {
		t.Errorf("unexpected body %q", data)
	}
}

func TestClient_Listing(t *testing.T) {
	_, c := newTestServer(t)
	entries, err := c.Listing(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "a@x1.md" {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestClient_ListingForbidden(t *testing.T) {
	srv, _ := newTestServer(t)
	c := NewClient(Options{ListingURL: srv.URL + "/contents"})
	_, err := c.Listing(context.Background())

	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if serr.StatusCode != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", serr.StatusCode)
	}
}

func TestClient_Document(t *testing.T) {
	_, c := newTestServer(t)
	body, err := c.Document(context.Background(), "a@x1.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "Alpha" {
		t.Errorf("expected %q, got %q", "Alpha", body)
	}
}

func TestClient_DocumentNotFound(t *testing.T) {
	_, c := newTestServer(t)
	_, err := c.Document(context.Background(), "missing@unknown.md")
	var serr *StatusError
	if !errors.As(err, &serr) || serr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 StatusError, got %v", err)
	}
}

func TestClient_DocumentTimeout(t *testing.T) {
	srv, _ := newTestServer(t)
	c := NewClient(Options{RawBaseURL: srv.URL + "/raw", Timeout: 20 * time.Millisecond})
	if _, err := c.Document(context.Background(), "slow@x.md"); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestClient_DocumentURLEscapes(t *testing.T) {
	c := NewClient(Options{RawBaseURL: "https://raw.example.com/content/"})
	got := c.DocumentURL("what is rag?@abc.md")
	want := "https://raw.example.com/content/what%20is%20rag%3F@abc.md"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
