package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farhold/quarterdeck/internal/common"
	"farhold/quarterdeck/internal/constants"
	"farhold/quarterdeck/internal/db/repositories"
	gormModels "farhold/quarterdeck/internal/models/gorm"
)

var (
	// ErrSquadronNotFound marks a missing squadron.
	ErrSquadronNotFound = errors.New("squadron not found")
	// ErrSquadronClosed rejects joins on inactive or non-recruiting squadrons.
	ErrSquadronClosed = errors.New("squadron is not accepting members")
	// ErrSquadronFull rejects joins past the member cap.
	ErrSquadronFull = errors.New("squadron is at capacity")
	// ErrAlreadyMember rejects duplicate joins.
	ErrAlreadyMember = errors.New("already an active member of this squadron")
	// ErrNotMember rejects leaving a squadron never joined.
	ErrNotMember = errors.New("not an active member of this squadron")
)

// SquadronService implements squadron lifecycle and membership rules.
type SquadronService struct {
	squadrons *repositories.SquadronRepository
}

// NewSquadronService creates a new squadron service
func NewSquadronService(squadrons *repositories.SquadronRepository) *SquadronService {
	return &SquadronService{squadrons: squadrons}
}

// CreateSquadron creates a squadron with a slug derived from its name.
func (s *SquadronService) CreateSquadron(ctx context.Context, squadron *gormModels.Squadron) error {
	slug := common.Slugify(squadron.Name)
	if slug == "" {
		slug = "squadron"
	}

	unique := slug
	for counter := 1; ; counter++ {
		taken, err := s.squadrons.SlugExists(ctx, unique)
		if err != nil {
			return err
		}
		if !taken {
			break
		}
		unique = fmt.Sprintf("%s-%d", slug, counter)
	}
	squadron.Slug = unique

	if squadron.Focus == "" {
		squadron.Focus = "mixed"
	}
	squadron.IsActive = true

	return s.squadrons.Create(ctx, squadron)
}

// Join adds a user to a squadron. The squadron must be active, recruiting,
// and under its cap. A user who left before is reactivated on the same row
// so membership history survives.
func (s *SquadronService) Join(ctx context.Context, squadronID, userID uint) error {
	squadron, err := s.squadrons.FindByID(ctx, squadronID)
	if err != nil {
		return err
	}
	if squadron == nil {
		return ErrSquadronNotFound
	}
	if !squadron.IsActive || !squadron.IsRecruiting {
		return ErrSquadronClosed
	}

	if squadron.MaxMembers != nil {
		active, err := s.squadrons.CountActiveMembers(ctx, squadronID)
		if err != nil {
			return err
		}
		if active >= int64(*squadron.MaxMembers) {
			return ErrSquadronFull
		}
	}

	membership, err := s.squadrons.FindMembership(ctx, squadronID, userID)
	if err != nil {
		return err
	}

	if membership == nil {
		return s.squadrons.CreateMembership(ctx, &gormModels.SquadronMember{
			SquadronID: squadronID,
			UserID:     userID,
			Role:       constants.SquadronRoleMember,
			IsActive:   true,
		})
	}

	if membership.IsActive {
		return ErrAlreadyMember
	}

	membership.IsActive = true
	membership.LeftAt = nil
	membership.JoinedAt = time.Now().UTC()
	return s.squadrons.SaveMembership(ctx, membership)
}

// Leave soft-removes a user: the row stays with is_active false and left_at
// set.
func (s *SquadronService) Leave(ctx context.Context, squadronID, userID uint) error {
	squadron, err := s.squadrons.FindByID(ctx, squadronID)
	if err != nil {
		return err
	}
	if squadron == nil {
		return ErrSquadronNotFound
	}

	membership, err := s.squadrons.FindMembership(ctx, squadronID, userID)
	if err != nil {
		return err
	}
	if membership == nil || !membership.IsActive {
		return ErrNotMember
	}

	now := time.Now().UTC()
	membership.IsActive = false
	membership.LeftAt = &now
	return s.squadrons.SaveMembership(ctx, membership)
}
