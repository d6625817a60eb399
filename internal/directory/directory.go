// Package directory talks to the camp-directory service: listing
// fetches over the content API, review submissions over the admin API,
// and per-camp page scraping for the extractor.
package directory

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"camp-planner/internal/config"

	"github.com/PuerkitoBio/goquery"
	"github.com/golang-jwt/jwt/v5"
)

// Listing represents a single camp listing from the directory API.
type Listing struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Website   string `json:"website"`
	UpdatedAt string `json:"updated_at"`
}

// ListingsResponse is the top-level structure of the directory API
// response for listings.
type ListingsResponse struct {
	Listings []Listing `json:"listings"`
}

// Client is an interface for a directory API client (Content & Admin).
type Client interface {
	FetchListings() ([]Listing, error)
	FetchPageText(url string) (string, error)
	SubmitCorrection(campID, note string) error
}

// directoryClient is the concrete implementation of the directory API client.
type directoryClient struct {
	httpClient *http.Client
	config     *config.Config
}

// NewClient creates a new directory API client.
func NewClient(cfg *config.Config) Client {
	return &directoryClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		config:     cfg,
	}
}

// FetchListings fetches all camp listings from the directory Content API.
func (c *directoryClient) FetchListings() ([]Listing, error) {
	url := fmt.Sprintf("%s/api/v1/content/listings/?key=%s", c.config.DirectoryURL, c.config.DirectoryContentKey)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content api error: status %d", resp.StatusCode)
	}

	var listingsResponse ListingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&listingsResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return listingsResponse.Listings, nil
}

// FetchPageText downloads a camp's page and strips it down to the text
// the extractor needs.
func (c *directoryClient) FetchPageText(url string) (string, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}

// SubmitCorrection posts a data-correction note for a listing using
// the directory Admin API.
func (c *directoryClient) SubmitCorrection(campID, note string) error {
	token, err := c.createAdminToken()
	if err != nil {
		return fmt.Errorf("failed to create admin token: %w", err)
	}

	correction := map[string]interface{}{
		"corrections": []map[string]interface{}{
			{
				"listing_id": campID,
				"note":       note,
			},
		},
	}

	body, _ := json.Marshal(correction)
	url := fmt.Sprintf("%s/api/v1/admin/corrections/", c.config.DirectoryURL)

	req, err := http.NewRequest("POST", url, strings.NewReader(string(body)))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Directory "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var errResp interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("admin api error: status %d, body: %v", resp.StatusCode, errResp)
	}

	return nil
}

// createAdminToken generates a short-lived JWT for the Admin API.
func (c *directoryClient) createAdminToken() (string, error) {
	keyParts := strings.Split(c.config.DirectoryAdminKey, ":")
	if len(keyParts) != 2 {
		return "", fmt.Errorf("invalid admin key format: expected id:secret")
	}

	id := keyParts[0]
	secretHex := keyParts[1]

	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(5 * time.Minute).Unix(),
		"aud": "/v1/admin/",
	})
	token.Header["kid"] = id

	return token.SignedString(secret)
}
