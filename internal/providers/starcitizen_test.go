package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"farhold/quarterdeck/internal/common"
	"farhold/quarterdeck/internal/constants"
)

func testProvider(serverURL string, cache common.CacheInterface) *StarCitizenProvider {
	return &StarCitizenProvider{
		BaseURL: serverURL,
		APIKey:  "test-key",
		Client:  &http.Client{},
		Cache:   cache,
	}
}

func TestStarCitizenProvider_GetShips_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.URL.Path != "/test-key/v1/cache/ships" {
			t.Errorf("Expected key-in-path URL, got %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"success": 1, "data": [
			{"id": "5", "name": "Avenger Titan", "mass": "52868.5", "cargo": 8},
			{"name": "Hornet F7C"}
		]}`)
	}))
	defer server.Close()

	ships, bad, err := testProvider(server.URL, nil).GetShips(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(ships) != 2 {
		t.Fatalf("Expected 2 ships, got %d", len(ships))
	}
	if bad != 0 {
		t.Errorf("Undecodable count = %d, want 0", bad)
	}

	first := ships[0]
	if first.ID == nil || int(*first.ID) != 5 {
		t.Errorf("Expected quoted id to decode to 5, got %v", first.ID)
	}
	if first.Mass == nil || float64(*first.Mass) != 52868.5 {
		t.Errorf("Expected quoted mass to decode, got %v", first.Mass)
	}
	if first.Cargo == nil || int(*first.Cargo) != 8 {
		t.Errorf("Expected cargo 8, got %v", first.Cargo)
	}
	if len(first.Raw) == 0 {
		t.Error("Expected raw payload to be retained")
	}
	if ships[1].ID != nil {
		t.Errorf("Expected missing id to stay nil, got %v", ships[1].ID)
	}
}

// Malformed batch entries are dropped from the result but reported, so sync
// runs can count them instead of losing them.
func TestStarCitizenProvider_GetShips_ReportsUndecodableEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": 1, "data": [
			{"name": "Gladius"},
			"not-a-ship",
			{"name": "Sabre"},
			42
		]}`)
	}))
	defer server.Close()

	ships, bad, err := testProvider(server.URL, nil).GetShips(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(ships) != 2 {
		t.Errorf("Decoded %d ships, want 2", len(ships))
	}
	if bad != 2 {
		t.Errorf("Undecodable count = %d, want 2", bad)
	}
}

func TestStarCitizenProvider_GetShips_CacheHitSkipsUpstream(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"success": 1, "data": [{"name": "Prospector"}]}`)
	}))
	defer server.Close()

	cache := common.NewCacheService(3600, 600)
	defer cache.Close()
	provider := testProvider(server.URL, cache)
	ctx := context.Background()

	if _, _, err := provider.GetShips(ctx); err != nil {
		t.Fatalf("First fetch failed: %v", err)
	}
	ships, _, err := provider.GetShips(ctx)
	if err != nil {
		t.Fatalf("Second fetch failed: %v", err)
	}
	if len(ships) != 1 || ships[0].Name != "Prospector" {
		t.Errorf("Cached fetch returned %+v", ships)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("Upstream called %d times, want 1", calls)
	}

	provider.ClearCache()
	if _, _, err := provider.GetShips(ctx); err != nil {
		t.Fatalf("Fetch after cache clear failed: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("Upstream called %d times after clear, want 2", calls)
	}
}

func TestStarCitizenProvider_MissingAPIKey(t *testing.T) {
	provider := &StarCitizenProvider{
		BaseURL: "http://localhost:0",
		Client:  &http.Client{},
	}

	_, _, err := provider.GetShips(context.Background())
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}
	if provErr.Code != constants.ErrCodeInvalidAPIKey {
		t.Errorf("Code = %s, want %s", provErr.Code, constants.ErrCodeInvalidAPIKey)
	}
}

func TestStarCitizenProvider_HTTPErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		code   string
	}{
		{http.StatusUnauthorized, constants.ErrCodeInvalidAPIKey},
		{http.StatusForbidden, constants.ErrCodeInvalidAPIKey},
		{http.StatusNotFound, constants.ErrCodeNotFound},
		{http.StatusTooManyRequests, constants.ErrCodeRateLimited},
		{http.StatusBadGateway, constants.ErrCodeUpstreamError},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			_, _, err := testProvider(server.URL, nil).GetShips(context.Background())
			var provErr *ProviderError
			if !errors.As(err, &provErr) {
				t.Fatalf("Expected ProviderError, got %v", err)
			}
			if provErr.Code != tc.code {
				t.Errorf("Code = %s, want %s", provErr.Code, tc.code)
			}
		})
	}
}

func TestStarCitizenProvider_EnvelopeFailure(t *testing.T) {
	// The API reports failures inside a 200 response
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": 0, "message": "invalid endpoint"}`)
	}))
	defer server.Close()

	_, _, err := testProvider(server.URL, nil).GetShips(context.Background())
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}
	if provErr.Code != constants.ErrCodeUpstreamError {
		t.Errorf("Code = %s, want %s", provErr.Code, constants.ErrCodeUpstreamError)
	}
	if provErr.Message != "invalid endpoint" {
		t.Errorf("Message = %q, want upstream message carried through", provErr.Message)
	}
}

func TestStarCitizenProvider_GetOrganization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/test-key/v1/live/user/FARHOLD" {
			t.Errorf("Expected normalized SID in path, got %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"success": 1, "data": {"name": "Farhold", "members": "42"}}`)
	}))
	defer server.Close()

	org, err := testProvider(server.URL, nil).GetOrganization(context.Background(), "  farhold ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if org.Name != "Farhold" {
		t.Errorf("Name = %q", org.Name)
	}
	if org.Members == nil || int(*org.Members) != 42 {
		t.Errorf("Members = %v, want 42", org.Members)
	}
}

func TestStarCitizenProvider_GetOrganization_NullIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": 1, "data": null}`)
	}))
	defer server.Close()

	_, err := testProvider(server.URL, nil).GetOrganization(context.Background(), "NOBODY")
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}
	if provErr.Code != constants.ErrCodeNotFound {
		t.Errorf("Code = %s, want %s", provErr.Code, constants.ErrCodeNotFound)
	}
}

func TestStarCitizenProvider_EmptySIDRejected(t *testing.T) {
	provider := testProvider("http://localhost:0", nil)
	if _, err := provider.GetOrganization(context.Background(), "  "); err == nil {
		t.Error("Expected error for blank SID")
	}
	if _, _, err := provider.GetOrganizationMembers(context.Background(), ""); err == nil {
		t.Error("Expected error for blank SID")
	}
}
