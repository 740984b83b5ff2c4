package domain

import (
	"time"

	"github.com/google/uuid"
)

// OfferStatus is the publication state of a partner offer.
type OfferStatus string

const (
	OfferDraft    OfferStatus = "draft"
	OfferActive   OfferStatus = "active"
	OfferArchived OfferStatus = "archived"
)

// Stock thresholds used by the validity evaluator.
const (
	lowStockPercentage = 20
	expiringSoonDays   = 7
)

// PartnerOffer is a time-windowed, stock-capped discount published by a partner.
// A nil StockAvailable means unlimited issuance; nil per-user limits mean no cap.
type PartnerOffer struct {
	OfferID            uuid.UUID
	PartnerID          uuid.UUID
	Title              string
	Description        string
	ReductionType      ReductionType
	ReductionValue     int64
	MembershipRequired MembershipGate
	ValidFrom          time.Time
	ValidUntil         time.Time
	StockAvailable     *int64
	StockUsed          int64
	UserLimitPerDay    *int
	UserLimitPerMonth  *int
	Status             OfferStatus
	DisplayOrder       int
	ViewsCount         int64
	ClicksCount        int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OfferEvaluation is the computed redeemability snapshot of one offer at one
// instant. It is rebuilt on every query; nothing here is ever stored.
type OfferEvaluation struct {
	IsValid         bool
	IsExpiringSoon  bool
	StockRemaining  *int64
	StockPercentage int
	IsLowStock      bool
	IsOutOfStock    bool
	DaysRemaining   int
}

// Evaluate computes the validity and stock posture of an offer at the given
// instant. Both window bounds are inclusive. Offers without a finite stock
// never report low or out of stock, however many codes they have issued.
func Evaluate(o PartnerOffer, now time.Time) OfferEvaluation {
	eval := OfferEvaluation{}

	eval.IsValid = o.Status == OfferActive &&
		!now.Before(o.ValidFrom) &&
		!now.After(o.ValidUntil)

	if o.StockAvailable != nil {
		remaining := *o.StockAvailable - o.StockUsed
		if remaining < 0 {
			remaining = 0
		}
		eval.StockRemaining = &remaining
		if *o.StockAvailable > 0 {
			eval.StockPercentage = int(100 * remaining / *o.StockAvailable)
		}
		eval.IsOutOfStock = remaining <= 0
		eval.IsLowStock = eval.StockPercentage > 0 && eval.StockPercentage < lowStockPercentage
	}

	if eval.IsValid {
		eval.DaysRemaining = daysUntil(o.ValidUntil, now)
		eval.IsExpiringSoon = eval.DaysRemaining <= expiringSoonDays
	}

	return eval
}

// daysUntil is the ceiling of the remaining window in whole days.
func daysUntil(until, now time.Time) int {
	remaining := until.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) != 0 {
		days++
	}
	return days
}
