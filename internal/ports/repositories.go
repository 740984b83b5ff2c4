package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cssclub/privileges-service/internal/domain"
)

// PartnerFilter narrows partner listings. Zero values mean "no filter".
type PartnerFilter struct {
	CategoryID   *uuid.UUID
	City         string
	FeaturedOnly bool
	Status       domain.PartnerStatus
}

// PartnerRepository reads the partner catalog.
type PartnerRepository interface {
	GetByID(ctx context.Context, partnerID uuid.UUID) (domain.Partner, error)
	List(ctx context.Context, filter PartnerFilter, limit, offset int) ([]domain.Partner, int64, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// OfferFilter narrows offer listings.
type OfferFilter struct {
	PartnerID *uuid.UUID
	Status    domain.OfferStatus
}

// OfferRepository reads offers and maintains their telemetry counters.
// The stock counter is deliberately absent here: it only moves inside the
// issue transaction owned by CodeRepository.
type OfferRepository interface {
	GetByID(ctx context.Context, offerID uuid.UUID) (domain.PartnerOffer, error)
	List(ctx context.Context, filter OfferFilter, limit, offset int) ([]domain.PartnerOffer, int64, error)
	IncrementViews(ctx context.Context, offerID uuid.UUID) error
	IncrementClicks(ctx context.Context, offerID uuid.UUID) error
}

// IssueCodeTxParams captures everything the atomic issue transaction needs.
// The code row arrives fully built; the adapter only decides whether the
// stock and quota guards admit it.
type IssueCodeTxParams struct {
	Code domain.ReductionCode
	// EnforceStock is false for unlimited offers, which track stock_used
	// without a cap.
	EnforceStock bool
	DailyLimit   *int
	MonthlyLimit *int
	// DayKey/MonthKey identify the quota periods (e.g. "2026-08-29" and
	// "2026-08") so cap rows stay small and indexable.
	DayKey   string
	MonthKey string
	// GeneratedEvent is enqueued on the outbox in the same transaction.
	GeneratedEvent OutboxEvent
	// LowStockEvent, when non-nil, is enqueued only if the post-increment
	// stock falls strictly between zero and the threshold percentage.
	LowStockEvent        *OutboxEvent
	LowStockThresholdPct int
}

// RedeemCodeTxParams captures the atomic redemption unit. Amounts are
// precomputed from the issuance snapshot, which no concurrent writer can
// change; only the use counter is re-decided under the row lock.
type RedeemCodeTxParams struct {
	CodeID         uuid.UUID
	Now            time.Time
	OriginalAmount *int64
	DiscountAmount int64
	FinalAmount    int64
	LoyaltyPoints  int64
	RedeemedEvent  OutboxEvent
}

// CodeRepository owns the redemption-code lifecycle. Both transactional
// methods exist to enforce the counter guards and ledger append as one
// indivisible unit; everything else is read-only.
type CodeRepository interface {
	IssueTx(ctx context.Context, params IssueCodeTxParams) (domain.ReductionCode, error)
	GetByCode(ctx context.Context, code string) (domain.ReductionCode, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status domain.CodeStatus, limit, offset int) ([]domain.ReductionCode, int64, error)
	RedeemTx(ctx context.Context, params RedeemCodeTxParams) (domain.CodeUsage, domain.ReductionCode, error)
	ListUsages(ctx context.Context, codeID uuid.UUID, limit, offset int) ([]domain.CodeUsage, error)
}

// LoyaltyRepository reads the per-member point balance. Writes happen only
// inside the redeem transaction.
type LoyaltyRepository interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (domain.LoyaltyAccount, error)
}

// OutboxEvent is the write-side event payload prior to storage.
// It is adapter-neutral to keep application code independent of broker specifics.
type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

// OutboxRecord represents durable outbox state, including retry/error metadata.
type OutboxRecord struct {
	OutboxID       uuid.UUID
	EventType      string
	PartitionKey   string
	Payload        []byte
	RetryCount     int
	LastError      *string
	CreatedAt      time.Time
	PublishedAt    *time.Time
	LastErrorAt    *time.Time
	FirstSeenAt    time.Time
	ClaimToken     *string
	ClaimUntil     *time.Time
	DeadLetteredAt *time.Time
}

// OutboxRepository controls publish-retry workflow for notification events.
// This explicit contract enables transactional outbox patterns without leaking DB details.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, claimToken string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
	MarkDeadLettered(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
}

// IdempotencyRecord tracks a previously accepted mutating request.
// Storing response metadata lets handlers return stable replay responses.
type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	Status       string
	ResponseCode int
	ResponseBody []byte
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IdempotencyRepository enforces idempotent mutation semantics for the
// generate and redeem endpoints, where a blind retry would double-consume.
// Release drops a pending reservation after a failed attempt; a key must
// only stay reserved while its outcome is genuinely unknown.
type IdempotencyRepository interface {
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error
	Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error
	Release(ctx context.Context, key string) error
}
