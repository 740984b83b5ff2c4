package postgres

import (
	"gorm.io/gorm"

	"github.com/cssclub/privileges-service/internal/ports"
)

// Repositories bundles every Postgres-backed port implementation behind one
// constructor so bootstrap wires a single value.
type Repositories struct {
	Partners    ports.PartnerRepository
	Offers      ports.OfferRepository
	Codes       ports.CodeRepository
	Loyalty     ports.LoyaltyRepository
	Outbox      ports.OutboxRepository
	Idempotency ports.IdempotencyRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Partners:    &partnerRepository{db: db},
		Offers:      &offerRepository{db: db},
		Codes:       &codeRepository{db: db},
		Loyalty:     &loyaltyRepository{db: db},
		Outbox:      &outboxRepository{db: db},
		Idempotency: &idempotencyRepository{db: db},
	}
}
