package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cssclub/privileges-service/internal/domain"
)

// RedisOfferCache holds raw offer rows behind a short TTL. A cache hit can
// be slightly stale on counters; every caller recomputes validity and stock
// posture against its own clock, and the issue transaction never reads from
// here, so staleness can only cost a precheck round trip.
type RedisOfferCache struct {
	client *redis.Client
}

func NewRedisOfferCache(client *redis.Client) *RedisOfferCache {
	return &RedisOfferCache{client: client}
}

func (c *RedisOfferCache) Get(ctx context.Context, offerID uuid.UUID) (*domain.PartnerOffer, error) {
	raw, err := c.client.Get(ctx, offerKey(offerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var offer domain.PartnerOffer
	if err := json.Unmarshal(raw, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

func (c *RedisOfferCache) Put(ctx context.Context, offer domain.PartnerOffer, ttl time.Duration) error {
	raw, err := json.Marshal(offer)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, offerKey(offer.OfferID), raw, ttl).Err()
}

func (c *RedisOfferCache) Invalidate(ctx context.Context, offerID uuid.UUID) error {
	return c.client.Del(ctx, offerKey(offerID)).Err()
}

func offerKey(offerID uuid.UUID) string {
	return "privileges:offer:" + offerID.String()
}
