package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cssclub/privileges-service/internal/domain"
)

// OfferCache is a read-through snapshot cache for offer rows. Only the raw
// row is cached; validity and stock overlays are always recomputed against
// the caller's clock, so a short TTL here can never serve a stale verdict.
type OfferCache interface {
	Get(ctx context.Context, offerID uuid.UUID) (*domain.PartnerOffer, error)
	Put(ctx context.Context, offer domain.PartnerOffer, ttl time.Duration) error
	Invalidate(ctx context.Context, offerID uuid.UUID) error
}
