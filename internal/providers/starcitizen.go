package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"farhold/quarterdeck/internal/common"
	"farhold/quarterdeck/internal/constants"
	"farhold/quarterdeck/internal/logging"
	"farhold/quarterdeck/internal/models/dtos"
)

// StarCitizenProvider fetches ship and organization data from the public
// Star Citizen API. The key rides in the URL path: /{key}/v1/{mode}/{endpoint}.
type StarCitizenProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Cache   common.CacheInterface
}

// NewStarCitizenProvider creates a provider configured from the environment.
func NewStarCitizenProvider(cache common.CacheInterface) *StarCitizenProvider {
	baseURL := os.Getenv("SC_API_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.starcitizen-api.com" // Default
	}
	apiKey := os.Getenv("SC_API_KEY")

	return &StarCitizenProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		Cache: cache,
	}
}

// GetProviderType returns the provider type identifier
func (p *StarCitizenProvider) GetProviderType() string {
	return "star_citizen_api"
}

// ClearCache drops every cached catalog payload.
func (p *StarCitizenProvider) ClearCache() {
	if p.Cache != nil {
		p.Cache.DeletePattern(constants.CacheKeyCatalogPattern)
	}
}

// GetShips fetches the full ship catalog, serving a cached copy when one is
// fresh. The second return value counts batch entries that failed to decode,
// so callers can report them instead of losing them.
func (p *StarCitizenProvider) GetShips(ctx context.Context) ([]dtos.SCShip, int, error) {
	if p.Cache != nil {
		if cached, found := p.Cache.Get(constants.CacheKeyShips); found {
			if ships, bad, ok := decodeCachedShips(cached); ok {
				logging.Debug("Serving ships from cache", "count", len(ships))
				return ships, bad, nil
			}
		}
	}

	raw, err := p.doGET(ctx, "v1/cache/ships")
	if err != nil {
		return nil, 0, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidDataFormat),
			Err:     err,
		}
	}

	bad := 0
	ships := make([]dtos.SCShip, 0, len(items))
	for _, item := range items {
		var ship dtos.SCShip
		if err := json.Unmarshal(item, &ship); err != nil {
			logging.Warn("Undecodable ship entry", "error", err)
			bad++
			continue
		}
		ship.Raw = item
		ships = append(ships, ship)
	}

	if p.Cache != nil {
		p.Cache.Set(constants.CacheKeyShips, json.RawMessage(raw), constants.CacheTTLShips)
	}
	logging.Info("Fetched ships from API", "count", len(ships), "undecodable", bad)
	return ships, bad, nil
}

// GetShip fetches a single ship by its upstream identifier.
func (p *StarCitizenProvider) GetShip(ctx context.Context, shipID string) (*dtos.SCShip, error) {
	if shipID == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Ship ID cannot be empty",
		}
	}

	cacheKey := constants.CacheKeyShipPrefix + shipID
	if p.Cache != nil {
		if cached, found := p.Cache.Get(cacheKey); found {
			if ship, ok := decodeCachedShip(cached); ok {
				return ship, nil
			}
		}
	}

	raw, err := p.doGET(ctx, "v1/cache/ships/"+shipID)
	if err != nil {
		return nil, err
	}
	if isJSONNull(raw) {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNotFound,
			Message: fmt.Sprintf("Ship %s not found", shipID),
		}
	}

	var ship dtos.SCShip
	if err := json.Unmarshal(raw, &ship); err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidDataFormat),
			Err:     err,
		}
	}
	ship.Raw = raw

	if p.Cache != nil {
		p.Cache.Set(cacheKey, json.RawMessage(raw), constants.CacheTTLShips)
	}
	return &ship, nil
}

// GetOrganization fetches organization details. The upstream exposes org data
// through the live user endpoint.
func (p *StarCitizenProvider) GetOrganization(ctx context.Context, sid string) (*dtos.SCOrganization, error) {
	sid = strings.ToUpper(strings.TrimSpace(sid))
	if sid == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Organization SID cannot be empty",
		}
	}

	cacheKey := constants.CacheKeyOrgPrefix + sid
	if p.Cache != nil {
		if cached, found := p.Cache.Get(cacheKey); found {
			if org, ok := decodeCachedOrg(cached); ok {
				return org, nil
			}
		}
	}

	raw, err := p.doGET(ctx, "v1/live/user/"+sid)
	if err != nil {
		return nil, err
	}
	if isJSONNull(raw) {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNotFound,
			Message: fmt.Sprintf("Organization %s not found", sid),
		}
	}

	var org dtos.SCOrganization
	if err := json.Unmarshal(raw, &org); err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidDataFormat),
			Err:     err,
		}
	}
	org.Raw = raw

	if p.Cache != nil {
		p.Cache.Set(cacheKey, json.RawMessage(raw), constants.CacheTTLVolatile)
	}
	return &org, nil
}

// GetOrganizationMembers fetches the live roster for an organization. The
// second return value counts roster entries that failed to decode.
func (p *StarCitizenProvider) GetOrganizationMembers(ctx context.Context, sid string) ([]dtos.SCOrgMember, int, error) {
	sid = strings.ToUpper(strings.TrimSpace(sid))
	if sid == "" {
		return nil, 0, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Organization SID cannot be empty",
		}
	}

	cacheKey := constants.CacheKeyOrgMembers + sid
	if p.Cache != nil {
		if cached, found := p.Cache.Get(cacheKey); found {
			if members, bad, ok := decodeCachedMembers(cached); ok {
				return members, bad, nil
			}
		}
	}

	raw, err := p.doGET(ctx, "v1/live/organization_members/"+sid)
	if err != nil {
		return nil, 0, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidDataFormat),
			Err:     err,
		}
	}

	bad := 0
	members := make([]dtos.SCOrgMember, 0, len(items))
	for _, item := range items {
		var member dtos.SCOrgMember
		if err := json.Unmarshal(item, &member); err != nil {
			logging.Warn("Undecodable member entry", "sid", sid, "error", err)
			bad++
			continue
		}
		member.Raw = item
		members = append(members, member)
	}

	if p.Cache != nil {
		p.Cache.Set(cacheKey, json.RawMessage(raw), constants.CacheTTLVolatile)
	}
	logging.Info("Fetched organization members from API", "sid", sid, "count", len(members), "undecodable", bad)
	return members, bad, nil
}

// doGET performs a GET request and unwraps the success envelope, returning the
// raw data payload.
func (p *StarCitizenProvider) doGET(ctx context.Context, endpoint string) (json.RawMessage, error) {
	// Validate API key
	if p.APIKey == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: "SC_API_KEY environment variable is not set",
		}
	}

	// Build request, key embedded in path
	url := fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(p.BaseURL, "/"), p.APIKey, strings.TrimPrefix(endpoint, "/"))
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Quarterdeck/1.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to read response body",
			Err:     readErr,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, p.buildHTTPError(resp.StatusCode, endpoint, string(bodyBytes))
	}

	var env dtos.SCEnvelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidDataFormat),
			Details: string(bodyBytes),
			Err:     err,
		}
	}

	// The API reports its own failures inside a 200 response
	if env.Failed() {
		msg := env.Message
		if msg == "" {
			msg = constants.GetErrorMessage(constants.ErrCodeUpstreamError)
		}
		return nil, &ProviderError{
			Code:    constants.ErrCodeUpstreamError,
			Message: msg,
			Details: string(bodyBytes),
		}
	}

	return env.Data, nil
}

// buildHTTPError creates appropriate error based on status code
func (p *StarCitizenProvider) buildHTTPError(statusCode int, endpoint string, body string) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: fmt.Sprintf("Authentication failed for endpoint %s", endpoint),
			Details: body,
		}
	case http.StatusNotFound:
		return &ProviderError{
			Code:    constants.ErrCodeNotFound,
			Message: fmt.Sprintf("Resource not found: %s", endpoint),
			Details: body,
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: body,
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeUpstreamError,
			Message: fmt.Sprintf("HTTP %d from %s", statusCode, endpoint),
			Details: body,
		}
	}
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

// Cached payloads come back as json.RawMessage from the in-memory cache but as
// generic values from Redis, so recover through a marshal round trip when
// needed.
func cachedRaw(cached interface{}) (json.RawMessage, bool) {
	switch v := cached.(type) {
	case json.RawMessage:
		return v, true
	case []byte:
		return v, true
	case string:
		return json.RawMessage(v), true
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		return data, true
	}
}

func decodeCachedShips(cached interface{}) ([]dtos.SCShip, int, bool) {
	raw, ok := cachedRaw(cached)
	if !ok {
		return nil, 0, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, false
	}
	bad := 0
	ships := make([]dtos.SCShip, 0, len(items))
	for _, item := range items {
		var ship dtos.SCShip
		if err := json.Unmarshal(item, &ship); err != nil {
			bad++
			continue
		}
		ship.Raw = item
		ships = append(ships, ship)
	}
	return ships, bad, true
}

func decodeCachedShip(cached interface{}) (*dtos.SCShip, bool) {
	raw, ok := cachedRaw(cached)
	if !ok {
		return nil, false
	}
	var ship dtos.SCShip
	if err := json.Unmarshal(raw, &ship); err != nil {
		return nil, false
	}
	ship.Raw = raw
	return &ship, true
}

func decodeCachedOrg(cached interface{}) (*dtos.SCOrganization, bool) {
	raw, ok := cachedRaw(cached)
	if !ok {
		return nil, false
	}
	var org dtos.SCOrganization
	if err := json.Unmarshal(raw, &org); err != nil {
		return nil, false
	}
	org.Raw = raw
	return &org, true
}

func decodeCachedMembers(cached interface{}) ([]dtos.SCOrgMember, int, bool) {
	raw, ok := cachedRaw(cached)
	if !ok {
		return nil, 0, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, false
	}
	bad := 0
	members := make([]dtos.SCOrgMember, 0, len(items))
	for _, item := range items {
		var member dtos.SCOrgMember
		if err := json.Unmarshal(item, &member); err != nil {
			bad++
			continue
		}
		member.Raw = item
		members = append(members, member)
	}
	return members, bad, true
}
