package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404/NOT_FOUND.
	ErrNotFound = errors.New("resource not found")
	// ErrOfferNotValid covers an offer outside its validity window or not in active status.
	ErrOfferNotValid = errors.New("offer not valid")
	// ErrStockExhausted signals that the offer has no issuable stock left.
	// The guard lives in the database update itself, so concurrent generators can never oversell.
	ErrStockExhausted = errors.New("offer stock exhausted")
	// ErrMembershipNotEligible means the caller's tier does not satisfy the offer gate.
	// Clients render an upgrade prompt from this, so it must stay distinct from other failures.
	ErrMembershipNotEligible = errors.New("membership tier not eligible")
	ErrDailyLimitExceeded    = errors.New("daily generation limit exceeded")
	ErrMonthlyLimitExceeded  = errors.New("monthly generation limit exceeded")
	ErrCodeNotFound          = errors.New("reduction code not found")
	ErrCodeExpired           = errors.New("reduction code expired")
	// ErrCodeExhausted is returned once uses_count has reached max_uses.
	ErrCodeExhausted = errors.New("reduction code uses exhausted")
	// ErrCodeNotActive covers manual deactivation or revocation of a code.
	ErrCodeNotActive       = errors.New("reduction code not active")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConflict            = errors.New("conflict")
	ErrIdempotencyConflict = errors.New("idempotency conflict")
)
