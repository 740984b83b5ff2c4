package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cssclub/privileges-service/internal/domain"
)

// getOffer is the cache-aside offer read. Cache failures degrade to the
// repository; only the raw row is cached, so staleness is bounded by the
// configured TTL and never affects validity verdicts, which are recomputed
// by every caller.
func (s *Service) getOffer(ctx context.Context, offerID uuid.UUID) (domain.PartnerOffer, error) {
	if s.offerCache != nil {
		cached, err := s.offerCache.Get(ctx, offerID)
		if err != nil {
			slog.Default().WarnContext(ctx, "offer cache read failed",
				"service", s.cfg.ServiceName,
				"module", "application",
				"layer", "application",
				"operation", "get_offer",
				"outcome", "warning",
				"offer_id", offerID,
				"error", err,
			)
		} else if cached != nil {
			return *cached, nil
		}
	}

	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return domain.PartnerOffer{}, err
	}
	if s.offerCache != nil {
		_ = s.offerCache.Put(ctx, offer, s.cfg.OfferCacheTTL)
	}
	return offer, nil
}

// replayIdempotent returns the stored response body when the key has already
// completed with the same request fingerprint. A reserved-but-incomplete key
// or a fingerprint mismatch is a conflict: the caller is retrying a request
// whose outcome is still unknown or reusing a key for different input.
func (s *Service) replayIdempotent(ctx context.Context, key string, req any) ([]byte, bool, error) {
	requestHash := hashRequest(req)

	existing, err := s.idempotency.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if existing.RequestHash != requestHash {
			return nil, false, fmt.Errorf("%w: idempotency key reused with a different request", domain.ErrIdempotencyConflict)
		}
		if existing.Status == "COMPLETED" {
			return existing.ResponseBody, true, nil
		}
		return nil, false, domain.ErrIdempotencyConflict
	}

	if err := s.idempotency.Reserve(ctx, key, requestHash, s.nowFn().Add(s.cfg.IdempotencyTTL)); err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrIdempotencyConflict, err)
	}
	return nil, false, nil
}

// hashRequest computes a deterministic request fingerprint for idempotency
// conflict detection.
func hashRequest(req any) string {
	raw, _ := json.Marshal(req)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// clampPage normalizes pagination inputs and returns the derived offset.
func (s *Service) clampPage(page, perPage int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 || perPage > s.cfg.MaxPageSize {
		perPage = s.cfg.DefaultPageSize
	}
	return page, perPage, (page - 1) * perPage
}
