package domain

import (
	"time"

	"github.com/google/uuid"
)

// PartnerStatus is the admin-controlled lifecycle state of a partner business.
type PartnerStatus string

const (
	PartnerActive    PartnerStatus = "active"
	PartnerInactive  PartnerStatus = "inactive"
	PartnerPending   PartnerStatus = "pending"
	PartnerSuspended PartnerStatus = "suspended"
)

// Category groups partners. One observed level of nesting via ParentID;
// deeper trees are an application convention, not enforced here.
type Category struct {
	CategoryID uuid.UUID
	Name       string
	ParentID   *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Partner is a business entity offering tier-dependent reductions.
// Unlike offers, partners carry one reduction value per paying tier.
type Partner struct {
	PartnerID             uuid.UUID
	CategoryID            uuid.UUID
	Name                  string
	Description           string
	ReductionType         ReductionType
	ReductionValuePremium int64
	ReductionValueSocios  int64
	Status                PartnerStatus
	// FeaturedOrder is 0 for non-featured partners; a positive value is the
	// display rank on the featured carousel.
	FeaturedOrder int
	City          string
	Latitude      *float64
	Longitude     *float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive reports whether the partner may appear in member-facing listings.
func (p Partner) IsActive() bool {
	return p.Status == PartnerActive
}
