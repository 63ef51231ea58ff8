package constants

// Ship size classifications, normalized from upstream payloads
const (
	ShipSizeVehicle = "vehicle"
	ShipSizeSnub    = "snub"
	ShipSizeSmall   = "small"
	ShipSizeMedium  = "medium"
	ShipSizeLarge   = "large"
	ShipSizeCapital = "capital"
)

// ShipSizeMap maps upstream size strings to local classifications.
// Unrecognized values normalize to the empty bucket.
var ShipSizeMap = map[string]string{
	"vehicle":      ShipSizeVehicle,
	"snub":         ShipSizeSnub,
	"snub fighter": ShipSizeSnub,
	"small":        ShipSizeSmall,
	"medium":       ShipSizeMedium,
	"large":        ShipSizeLarge,
	"capital":      ShipSizeCapital,
}

// Upstream production status values that map to local readiness flags
const (
	ProductionFlightReady = "flight-ready"
	ProductionConcept     = "concept"
)

// Fleet ownership status
const (
	FleetStatusActive  = "active"
	FleetStatusPledged = "pledged"
	FleetStatusLoaned  = "loaned"
	FleetStatusSold    = "sold"
)

// FleetStatuses lists the accepted ownership status values
var FleetStatuses = map[string]bool{
	FleetStatusActive:  true,
	FleetStatusPledged: true,
	FleetStatusLoaned:  true,
	FleetStatusSold:    true,
}

// Squadron member roles
const (
	SquadronRoleMember     = "member"
	SquadronRoleLead       = "lead"
	SquadronRoleOfficer    = "officer"
	SquadronRoleSpecialist = "specialist"
)

// Contact submission lifecycle
const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

// API response status values
const (
	APIStatusOk    = "success"
	APIStatusError = "error"
)
