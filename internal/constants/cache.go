package constants

import "time"

// Cache key prefixes for catalog API responses
const (
	CacheKeyShips      = "sc_api:ships"
	CacheKeyShipPrefix = "sc_api:ship:"
	CacheKeyOrgPrefix  = "sc_api:org:"
	CacheKeyOrgMembers = "sc_api:org_members:"

	// CacheKeyCatalogPattern matches every catalog API cache entry
	CacheKeyCatalogPattern = "sc_api:*"
)

// Cache TTLs. Ship specs are near-static; rosters and org data are volatile.
const (
	CacheTTLShips    = 24 * time.Hour
	CacheTTLVolatile = 1 * time.Hour
)
