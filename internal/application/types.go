package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/cssclub/privileges-service/internal/domain"
)

// Config carries the tunable policy knobs of the application layer.
// Defaults live in bootstrap; tests construct this directly.
type Config struct {
	ServiceName string
	// CodeTTL bounds a code's life from issuance. The effective expiry is
	// the earlier of this TTL and the offer's valid_until.
	CodeTTL time.Duration
	// DefaultMaxUses applies when the generate request does not carry an
	// offer-level override.
	DefaultMaxUses int
	// LowStockThresholdPct triggers the low-stock notification event once
	// remaining stock falls strictly below this percentage.
	LowStockThresholdPct   int
	CodeGenerationAttempts int
	OfferCacheTTL          time.Duration
	IdempotencyTTL         time.Duration
	DefaultPageSize        int
	MaxPageSize            int
}

type GenerateCodeRequest struct {
	OfferID string `json:"offer_id"`
	Type    string `json:"type,omitempty"`
}

type GenerateCodeResponse struct {
	Code      string    `json:"code"`
	Type      string    `json:"type"`
	ExpiresAt time.Time `json:"expires_at"`
	MaxUses   int       `json:"max_uses"`
}

type ValidateCodeRequest struct {
	Code string `json:"code"`
}

// OfferSnapshot is the read-only offer context returned with a code lookup,
// enough for partner-side scanners to show what is being redeemed.
type OfferSnapshot struct {
	OfferID        uuid.UUID `json:"offer_id"`
	Title          string    `json:"title"`
	ReductionType  string    `json:"reduction_type"`
	ReductionValue int64     `json:"reduction_value"`
	ValidUntil     time.Time `json:"valid_until"`
}

type ValidateCodeResponse struct {
	Status    string         `json:"status"`
	IsExpired bool           `json:"is_expired"`
	IsUsedUp  bool           `json:"is_used_up"`
	IsActive  bool           `json:"is_active"`
	Offer     *OfferSnapshot `json:"offer,omitempty"`
}

type RedeemCodeRequest struct {
	Code           string `json:"code"`
	PurchaseAmount *int64 `json:"purchase_amount,omitempty"`
}

type RedeemCodeResponse struct {
	Code           string `json:"code"`
	DiscountAmount int64  `json:"discount_amount"`
	FinalAmount    int64  `json:"final_amount"`
	UsesRemaining  int    `json:"uses_remaining"`
}

type MyCodesQuery struct {
	Status  string
	Page    int
	PerPage int
}

// CodeItem is one entry of the member's code list. The status and boolean
// overlays are computed against the request clock, never echoed verbatim
// from storage.
type CodeItem struct {
	Code          string     `json:"code"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	OfferID       uuid.UUID  `json:"offer_id"`
	ReductionType string     `json:"reduction_type"`
	DiscountValue int64      `json:"discount_value"`
	UsesCount     int        `json:"uses_count"`
	MaxUses       int        `json:"max_uses"`
	RemainingUses int        `json:"remaining_uses"`
	IsExpired     bool       `json:"is_expired"`
	IsUsedUp      bool       `json:"is_used_up"`
	IsActive      bool       `json:"is_active"`
	ExpiresAt     time.Time  `json:"expires_at"`
	UsedAt        *time.Time `json:"used_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type CodeListResponse struct {
	Items   []CodeItem `json:"items"`
	Page    int        `json:"page"`
	PerPage int        `json:"per_page"`
	Total   int64      `json:"total"`
}

type PartnersQuery struct {
	CategoryID   string
	City         string
	FeaturedOnly bool
	Page         int
	PerPage      int
}

type PartnerItem struct {
	PartnerID      uuid.UUID `json:"partner_id"`
	CategoryID     uuid.UUID `json:"category_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	City           string    `json:"city"`
	FeaturedOrder  int       `json:"featured_order"`
	ReductionType  string    `json:"reduction_type"`
	DiscountAmount int64     `json:"discount_amount"`
	HasDiscount    bool      `json:"has_discount"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
}

type PartnerListResponse struct {
	Items   []PartnerItem `json:"items"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
	Total   int64         `json:"total"`
}

type OffersQuery struct {
	PartnerID string
	Page      int
	PerPage   int
}

// OfferItem composes the raw offer row with the caller-tier discount and the
// validity evaluation, both rebuilt on every request.
type OfferItem struct {
	OfferID            uuid.UUID `json:"offer_id"`
	PartnerID          uuid.UUID `json:"partner_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	ReductionType      string    `json:"reduction_type"`
	ReductionValue     int64     `json:"reduction_value"`
	MembershipRequired string    `json:"membership_required"`
	ValidFrom          time.Time `json:"valid_from"`
	ValidUntil         time.Time `json:"valid_until"`
	IsEligible         bool      `json:"is_eligible"`
	DiscountAmount     int64     `json:"discount_amount"`
	HasDiscount        bool      `json:"has_discount"`
	IsValid            bool      `json:"is_valid"`
	IsExpiringSoon     bool      `json:"is_expiring_soon"`
	DaysRemaining      int       `json:"days_remaining"`
	StockRemaining     *int64    `json:"stock_remaining,omitempty"`
	StockPercentage    int       `json:"stock_percentage"`
	IsLowStock         bool      `json:"is_low_stock"`
	IsOutOfStock       bool      `json:"is_out_of_stock"`
}

type OfferListResponse struct {
	Items   []OfferItem `json:"items"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
	Total   int64       `json:"total"`
}

type CategoryItem struct {
	CategoryID uuid.UUID  `json:"category_id"`
	Name       string     `json:"name"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
}

type LoyaltyResponse struct {
	Points int64  `json:"points"`
	Level  string `json:"level"`
}

func toCodeItem(c domain.ReductionCode, now time.Time) CodeItem {
	effective := c.EffectiveStatus(now)
	return CodeItem{
		Code:          c.Code,
		Type:          string(c.Type),
		Status:        string(effective),
		OfferID:       c.OfferID,
		ReductionType: string(c.ReductionType),
		DiscountValue: c.DiscountValue,
		UsesCount:     c.UsesCount,
		MaxUses:       c.MaxUses,
		RemainingUses: c.RemainingUses(),
		IsExpired:     c.IsExpired(now),
		IsUsedUp:      c.IsUsedUp(),
		IsActive:      effective == domain.CodeActive,
		ExpiresAt:     c.ExpiresAt,
		UsedAt:        c.UsedAt,
		CreatedAt:     c.CreatedAt,
	}
}

func toPartnerItem(p domain.Partner, tier domain.MembershipTier) PartnerItem {
	discount := domain.ResolvePartnerDiscount(tier, p)
	return PartnerItem{
		PartnerID:      p.PartnerID,
		CategoryID:     p.CategoryID,
		Name:           p.Name,
		Description:    p.Description,
		City:           p.City,
		FeaturedOrder:  p.FeaturedOrder,
		ReductionType:  string(discount.Type),
		DiscountAmount: discount.Amount,
		HasDiscount:    discount.HasDiscount(),
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
	}
}

func toOfferItem(o domain.PartnerOffer, tier domain.MembershipTier, now time.Time) OfferItem {
	discount := domain.ResolveOfferDiscount(tier, o)
	eval := domain.Evaluate(o, now)
	return OfferItem{
		OfferID:            o.OfferID,
		PartnerID:          o.PartnerID,
		Title:              o.Title,
		Description:        o.Description,
		ReductionType:      string(o.ReductionType),
		ReductionValue:     o.ReductionValue,
		MembershipRequired: string(o.MembershipRequired),
		ValidFrom:          o.ValidFrom,
		ValidUntil:         o.ValidUntil,
		IsEligible:         domain.TierEligible(tier, o.MembershipRequired),
		DiscountAmount:     discount.Amount,
		HasDiscount:        discount.HasDiscount(),
		IsValid:            eval.IsValid,
		IsExpiringSoon:     eval.IsExpiringSoon,
		DaysRemaining:      eval.DaysRemaining,
		StockRemaining:     eval.StockRemaining,
		StockPercentage:    eval.StockPercentage,
		IsLowStock:         eval.IsLowStock,
		IsOutOfStock:       eval.IsOutOfStock,
	}
}

func toOfferSnapshot(o domain.PartnerOffer) *OfferSnapshot {
	return &OfferSnapshot{
		OfferID:        o.OfferID,
		Title:          o.Title,
		ReductionType:  string(o.ReductionType),
		ReductionValue: o.ReductionValue,
		ValidUntil:     o.ValidUntil,
	}
}
