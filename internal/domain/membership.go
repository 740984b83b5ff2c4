package domain

// MembershipTier is the club subscription level attached to a member.
// Tier issuance and changes are owned by the subscription service; here the
// tier is an input attribute on every eligibility decision.
type MembershipTier string

const (
	TierFree    MembershipTier = "free"
	TierPremium MembershipTier = "premium"
	TierSocios  MembershipTier = "socios"
)

// ParseTier normalizes an externally supplied tier value. Unknown values
// degrade to the free tier rather than failing, so a stale or malformed
// claim can never grant a discount it should not.
func ParseTier(raw string) MembershipTier {
	switch MembershipTier(raw) {
	case TierPremium:
		return TierPremium
	case TierSocios:
		return TierSocios
	default:
		return TierFree
	}
}

// MembershipGate is the audience restriction carried by an offer.
type MembershipGate string

const (
	GateFree    MembershipGate = "free"
	GatePremium MembershipGate = "premium"
	GateSocios  MembershipGate = "socios"
	GateBoth    MembershipGate = "both"
)

// ReductionType distinguishes percentage discounts from fixed amounts.
type ReductionType string

const (
	ReductionPercentage ReductionType = "percentage"
	ReductionFixed      ReductionType = "fixed"
)

// Discount is the resolved reduction for one tier against one partner or offer.
type Discount struct {
	Amount int64
	Type   ReductionType
}

// HasDiscount reports whether the resolved reduction is worth anything.
func (d Discount) HasDiscount() bool {
	return d.Amount > 0
}

// ResolvePartnerDiscount maps a tier onto a partner's dual reduction values.
// The free tier always resolves to zero.
func ResolvePartnerDiscount(tier MembershipTier, p Partner) Discount {
	switch tier {
	case TierSocios:
		return Discount{Amount: p.ReductionValueSocios, Type: p.ReductionType}
	case TierPremium:
		return Discount{Amount: p.ReductionValuePremium, Type: p.ReductionType}
	default:
		return Discount{Amount: 0, Type: p.ReductionType}
	}
}

// ResolveOfferDiscount maps a tier onto an offer's single reduction value
// through its membership gate. Free-tier members never receive a discount,
// whatever the gate says.
func ResolveOfferDiscount(tier MembershipTier, o PartnerOffer) Discount {
	if !TierEligible(tier, o.MembershipRequired) {
		return Discount{Amount: 0, Type: o.ReductionType}
	}
	return Discount{Amount: o.ReductionValue, Type: o.ReductionType}
}

// TierEligible reports whether a tier passes an offer's membership gate.
// "both" admits every paying tier; a named tier admits exactly that tier.
// Free-tier members fail every gate, including a gate of "free".
func TierEligible(tier MembershipTier, gate MembershipGate) bool {
	if tier != TierPremium && tier != TierSocios {
		return false
	}
	switch gate {
	case GateBoth:
		return true
	case GatePremium:
		return tier == TierPremium
	case GateSocios:
		return tier == TierSocios
	default:
		return false
	}
}

// ApplyDiscount computes the money effect of a discount on a purchase amount
// in cents. The final amount never drops below zero.
func ApplyDiscount(d Discount, originalAmount int64) (discountAmount, finalAmount int64) {
	switch d.Type {
	case ReductionPercentage:
		discountAmount = originalAmount * d.Amount / 100
	case ReductionFixed:
		discountAmount = d.Amount
	}
	if discountAmount > originalAmount {
		discountAmount = originalAmount
	}
	if discountAmount < 0 {
		discountAmount = 0
	}
	return discountAmount, originalAmount - discountAmount
}
