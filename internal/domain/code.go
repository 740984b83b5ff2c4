package domain

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CodeType is the presentation channel of a redemption code.
type CodeType string

const (
	CodeQR    CodeType = "qr"
	CodePromo CodeType = "promo"
	CodeNFC   CodeType = "nfc"
)

// CodeStatus is the stored lifecycle state of a redemption code. Expiry is a
// computed overlay, so the authoritative state at any instant comes from
// EffectiveStatus, never from this field alone.
type CodeStatus string

const (
	CodeActive    CodeStatus = "active"
	CodeUsed      CodeStatus = "used"
	CodeExpired   CodeStatus = "expired"
	CodeCancelled CodeStatus = "cancelled"
)

// ReductionCode is a unique voucher binding one member to one offer for a
// bounded window and a bounded number of uses. The discount fields are a
// snapshot taken at issuance so later offer edits never change what the
// member was promised.
type ReductionCode struct {
	CodeID        uuid.UUID
	UserID        uuid.UUID
	OfferID       uuid.UUID
	Code          string
	Type          CodeType
	Status        CodeStatus
	ReductionType ReductionType
	DiscountValue int64
	UsesCount     int
	MaxUses       int
	ExpiresAt     time.Time
	UsedAt        *time.Time
	CreatedAt     time.Time
}

// IsExpired applies the lazy expiry overlay. A stored status of active is
// never trusted over the clock.
func (c ReductionCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// IsUsedUp reports whether every permitted use has been consumed.
func (c ReductionCode) IsUsedUp() bool {
	return c.UsesCount >= c.MaxUses
}

// RemainingUses never reports below zero.
func (c ReductionCode) RemainingUses() int {
	if remaining := c.MaxUses - c.UsesCount; remaining > 0 {
		return remaining
	}
	return 0
}

// EffectiveStatus derives the authoritative state from the counters and the
// clock. The stored status only wins for manual terminal states (cancelled),
// which no counter can express.
func (c ReductionCode) EffectiveStatus(now time.Time) CodeStatus {
	if c.Status == CodeCancelled {
		return CodeCancelled
	}
	if c.IsUsedUp() {
		return CodeUsed
	}
	if c.IsExpired(now) {
		return CodeExpired
	}
	if c.Status != CodeActive {
		return c.Status
	}
	return CodeActive
}

// Discount reconstructs the issuance-time discount snapshot.
func (c ReductionCode) Discount() Discount {
	return Discount{Amount: c.DiscountValue, Type: c.ReductionType}
}

// CodeUsage is one immutable ledger row per successful redemption.
// OriginalAmount is nil for discount-only redemptions recorded without a
// purchase amount. Rows are never updated or deleted.
type CodeUsage struct {
	UsageID         uuid.UUID
	ReductionCodeID uuid.UUID
	OriginalAmount  *int64
	DiscountAmount  int64
	FinalAmount     int64
	UsedAt          time.Time
}

// LoyaltyAccount accumulates points awarded on redemptions. Points only ever
// grow; the level is recomputed from the running total.
type LoyaltyAccount struct {
	UserID    uuid.UUID
	Points    int64
	Level     string
	UpdatedAt time.Time
}

// LoyaltyLevel maps a running point total onto the display level.
func LoyaltyLevel(points int64) string {
	switch {
	case points >= 5000:
		return "gold"
	case points >= 1000:
		return "silver"
	default:
		return "bronze"
	}
}

const (
	codeLetters  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// NewCodeString produces a display-oriented code such as "ABC-DEF123".
// The alphabet drops ambiguous glyphs (I, O, 0, 1) since partners type these
// by hand. Uniqueness is enforced by the storage layer's unique index, with
// the caller retrying on collision.
func NewCodeString() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	out := make([]byte, 10)
	for i := 0; i < 3; i++ {
		out[i] = codeLetters[int(buf[i])%len(codeLetters)]
	}
	out[3] = '-'
	for i := 3; i < 9; i++ {
		out[i+1] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return string(out), nil
}
