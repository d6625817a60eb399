package directory

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"camp-planner/internal/config"
)

func TestFetchListings(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Mock directory API server
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Check that the key is in the query
			if r.URL.Query().Get("key") != "test_key" {
				t.Errorf("Expected key 'test_key', got '%s'", r.URL.Query().Get("key"))
			}

			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{
				"listings": [
					{"id": "art-studio", "name": "Art Studio Camp", "website": "https://example.com/art", "updated_at": "2026-01-10T10:00:00Z"},
					{"id": "robot-lab", "name": "Robot Lab", "website": "https://example.com/robot", "updated_at": "2026-01-11T10:00:00Z"}
				]
			}`)
		}))
		defer server.Close()

		cfg := &config.Config{
			DirectoryURL:        server.URL,
			DirectoryContentKey: "test_key",
		}
		client := NewClient(cfg)

		listings, err := client.FetchListings()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if len(listings) != 2 {
			t.Fatalf("Expected 2 listings, got %d", len(listings))
		}
		if listings[0].ID != "art-studio" {
			t.Errorf("Expected first listing art-studio, got %s", listings[0].ID)
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		cfg := &config.Config{
			DirectoryURL:        server.URL,
			DirectoryContentKey: "test_key",
		}
		client := NewClient(cfg)

		_, err := client.FetchListings()
		if err == nil {
			t.Fatal("Expected an error for non-200 status code, got nil")
		}
	})
}

func TestFetchPageText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `<html><head><style>body{}</style></head><body>
			<script>var x = 1;</script>
			<nav>Menu</nav>
			<p>Summer camp for ages 5-12. Hours 9am-3pm.</p>
			<footer>Contact us</footer>
		</body></html>`)
	}))
	defer server.Close()

	client := NewClient(&config.Config{DirectoryURL: server.URL})
	text, err := client.FetchPageText(server.URL)
	if err != nil {
		t.Fatalf("FetchPageText failed: %v", err)
	}

	if !strings.Contains(text, "Summer camp for ages 5-12") {
		t.Errorf("Expected page text retained, got %q", text)
	}
	for _, noise := range []string{"var x = 1", "Menu", "Contact us", "body{}"} {
		if strings.Contains(text, noise) {
			t.Errorf("Expected %q stripped from page text", noise)
		}
	}
}

func TestSubmitCorrection(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	cfg := &config.Config{
		DirectoryURL:      server.URL,
		DirectoryAdminKey: "keyid:6162636465666768",
	}
	client := NewClient(cfg)

	if err := client.SubmitCorrection("art-studio", "price is outdated"); err != nil {
		t.Fatalf("SubmitCorrection failed: %v", err)
	}
	if !strings.HasPrefix(gotAuth, "Directory ") {
		t.Errorf("Expected Directory auth scheme, got %q", gotAuth)
	}
}

func TestSubmitCorrectionBadAdminKey(t *testing.T) {
	client := NewClient(&config.Config{DirectoryURL: "http://unused", DirectoryAdminKey: "not-a-pair"})
	err := client.SubmitCorrection("art-studio", "note")
	if err == nil || !strings.Contains(err.Error(), "invalid admin key format") {
		t.Errorf("Expected admin key format error, got %v", err)
	}
}
