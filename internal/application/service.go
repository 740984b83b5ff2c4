package application

import (
	"time"

	"github.com/cssclub/privileges-service/internal/ports"
)

// Service implements the redemption-code lifecycle and the member-facing
// catalog reads. All clock access goes through nowFn so every eligibility
// decision is deterministic under test.
type Service struct {
	cfg         Config
	partners    ports.PartnerRepository
	offers      ports.OfferRepository
	codes       ports.CodeRepository
	loyalty     ports.LoyaltyRepository
	outbox      ports.OutboxRepository
	idempotency ports.IdempotencyRepository
	offerCache  ports.OfferCache
	nowFn       func() time.Time
}

type Dependencies struct {
	Config      Config
	Partners    ports.PartnerRepository
	Offers      ports.OfferRepository
	Codes       ports.CodeRepository
	Loyalty     ports.LoyaltyRepository
	Outbox      ports.OutboxRepository
	Idempotency ports.IdempotencyRepository
	OfferCache  ports.OfferCache
	// NowFn overrides the clock. Nil means UTC wall time, read on every
	// call, never captured at construction.
	NowFn func() time.Time
}

func NewService(deps Dependencies) *Service {
	nowFn := deps.NowFn
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		cfg:         deps.Config,
		partners:    deps.Partners,
		offers:      deps.Offers,
		codes:       deps.Codes,
		loyalty:     deps.Loyalty,
		outbox:      deps.Outbox,
		idempotency: deps.Idempotency,
		offerCache:  deps.OfferCache,
		nowFn:       nowFn,
	}
}
