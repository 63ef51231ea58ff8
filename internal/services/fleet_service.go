package services

import (
	"context"
	"errors"

	"farhold/quarterdeck/internal/constants"
	"farhold/quarterdeck/internal/db/repositories"
	gormModels "farhold/quarterdeck/internal/models/gorm"
)

var (
	// ErrShipNotFound marks a fleet request against a missing catalog ship.
	ErrShipNotFound = errors.New("catalog ship not found")
	// ErrFleetShipNotFound marks a missing fleet entry.
	ErrFleetShipNotFound = errors.New("fleet ship not found")
	// ErrNotOwner rejects edits to someone else's ship.
	ErrNotOwner = errors.New("not the owner of this ship")
	// ErrInvalidFleetStatus rejects unknown ownership status values.
	ErrInvalidFleetStatus = errors.New("invalid fleet status")
)

// FleetService implements per-member fleet inventory.
type FleetService struct {
	fleet   *repositories.FleetRepository
	catalog *repositories.CatalogRepository
}

// NewFleetService creates a new fleet service
func NewFleetService(fleet *repositories.FleetRepository, catalog *repositories.CatalogRepository) *FleetService {
	return &FleetService{fleet: fleet, catalog: catalog}
}

// AddShip registers a catalog ship in a member's fleet.
func (s *FleetService) AddShip(ctx context.Context, entry *gormModels.FleetShip) error {
	ship, err := s.catalog.GetShipByID(ctx, entry.ShipID)
	if err != nil {
		return err
	}
	if ship == nil {
		return ErrShipNotFound
	}

	if entry.Status == "" {
		entry.Status = constants.FleetStatusActive
	}
	if !constants.FleetStatuses[entry.Status] {
		return ErrInvalidFleetStatus
	}
	if entry.Name == "" {
		entry.Name = ship.Name
	}

	return s.fleet.Create(ctx, entry)
}

// UpdateShip applies edits to a fleet entry. Only the owner or an admin may
// touch it.
func (s *FleetService) UpdateShip(ctx context.Context, id, actorID uint, actorIsAdmin bool, apply func(*gormModels.FleetShip)) (*gormModels.FleetShip, error) {
	entry, err := s.fleet.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrFleetShipNotFound
	}
	if entry.OwnerID != actorID && !actorIsAdmin {
		return nil, ErrNotOwner
	}

	apply(entry)
	if !constants.FleetStatuses[entry.Status] {
		return nil, ErrInvalidFleetStatus
	}

	if err := s.fleet.Save(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveShip deletes a fleet entry under the same ownership rule.
func (s *FleetService) RemoveShip(ctx context.Context, id, actorID uint, actorIsAdmin bool) error {
	entry, err := s.fleet.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrFleetShipNotFound
	}
	if entry.OwnerID != actorID && !actorIsAdmin {
		return ErrNotOwner
	}

	return s.fleet.Delete(ctx, id)
}
