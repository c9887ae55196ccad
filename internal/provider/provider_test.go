package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func testClient(listingURL, propertyURL string) *Client {
	return NewClientWithConfig(ClientConfig{
		APIKey:          "test-key",
		Timeout:         5 * time.Second,
		MaxRetries:      2,
		RetryDelay:      time.Millisecond,
		RequestDelay:    0,
		BaseListingURL:  listingURL,
		BasePropertyURL: propertyURL,
	})
}

func TestSearchURL(t *testing.T) {
	raw := SearchURL("Jersey City", "NJ", 40.7178, -74.0431)

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("SearchURL returned unparseable URL: %v", err)
	}
	if u.Host != "www.zillow.com" {
		t.Errorf("host = %q, want www.zillow.com", u.Host)
	}
	if !strings.HasPrefix(u.Path, "/jersey-city-nj/") {
		t.Errorf("path = %q, want /jersey-city-nj/ prefix", u.Path)
	}

	var state struct {
		UsersSearchTerm string `json:"usersSearchTerm"`
		MapBounds       struct {
			West, East, South, North float64
		} `json:"mapBounds"`
	}
	if err := json.Unmarshal([]byte(u.Query().Get("searchQueryState")), &state); err != nil {
		t.Fatalf("searchQueryState is not valid JSON: %v", err)
	}
	if state.UsersSearchTerm != "Jersey City, NJ" {
		t.Errorf("usersSearchTerm = %q", state.UsersSearchTerm)
	}
	if state.MapBounds.West >= state.MapBounds.East {
		t.Errorf("west %f should be less than east %f", state.MapBounds.West, state.MapBounds.East)
	}
	if state.MapBounds.South >= state.MapBounds.North {
		t.Errorf("south %f should be less than north %f", state.MapBounds.South, state.MapBounds.North)
	}
}

func TestListingsPassesKeyAndURL(t *testing.T) {
	var gotKey, gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		gotURL = r.URL.Query().Get("url")
		w.Write([]byte(`{"is_success": true}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	body, err := c.Listings(context.Background(), "https://www.zillow.com/jersey-city-nj/")
	if err != nil {
		t.Fatalf("Listings: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("api_key = %q", gotKey)
	}
	if gotURL != "https://www.zillow.com/jersey-city-nj/" {
		t.Errorf("url = %q", gotURL)
	}
	if !strings.Contains(string(body), "is_success") {
		t.Errorf("unexpected body %s", body)
	}
}

func TestPropertyParamSelection(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)

	if _, err := c.Property(context.Background(), "2078133107", ""); err != nil {
		t.Fatalf("Property by zpid: %v", err)
	}
	if gotQuery.Get("zpid") != "2078133107" || gotQuery.Get("address") != "" {
		t.Errorf("zpid lookup sent %v", gotQuery)
	}

	if _, err := c.Property(context.Background(), "", "54 Mercer St, Jersey City, NJ"); err != nil {
		t.Fatalf("Property by address: %v", err)
	}
	if gotQuery.Get("address") != "54 Mercer St, Jersey City, NJ" {
		t.Errorf("address lookup sent %v", gotQuery)
	}

	if _, err := c.Property(context.Background(), "", ""); err == nil {
		t.Error("expected error when both zpid and address are empty")
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"is_success": true}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	if _, err := c.Listings(context.Background(), "x"); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	if _, err := c.Listings(context.Background(), "x"); err == nil {
		t.Fatal("expected error on 401")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 4xx)", calls)
	}
}

func TestCircuitBreakerOpensOnConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(8, time.Hour)

	cb.RecordFailure(429)
	if !cb.CanProceed() {
		t.Fatal("breaker should stay closed after one failure")
	}
	cb.RecordFailure(429)
	if cb.CanProceed() {
		t.Fatal("breaker should open after two consecutive 429s")
	}

	open, failures, total := cb.GetStatus()
	if !open || failures != 2 || total != 2 {
		t.Errorf("status = (%v, %d, %d)", open, failures, total)
	}
}

func TestCircuitBreakerResetsAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(8, 10*time.Millisecond)
	cb.RecordFailure(500)
	cb.RecordFailure(500)
	if cb.CanProceed() {
		t.Fatal("breaker should be open")
	}

	time.Sleep(20 * time.Millisecond)
	if !cb.CanProceed() {
		t.Fatal("breaker should half-open after reset timeout")
	}
	open, _, total := cb.GetStatus()
	if open || total != 0 {
		t.Errorf("expected reset counters, got open=%v total=%d", open, total)
	}
}

func TestCircuitBreakerSuccessClearsConsecutive(t *testing.T) {
	cb := NewCircuitBreaker(8, time.Hour)
	cb.RecordFailure(500)
	cb.RecordSuccess()
	cb.RecordFailure(500)
	if !cb.CanProceed() {
		t.Fatal("interleaved success should prevent the consecutive trip")
	}
}
