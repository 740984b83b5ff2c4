package postgres

import (
	"time"

	"github.com/google/uuid"
)

type categoryModel struct {
	CategoryID uuid.UUID  `gorm:"column:category_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string     `gorm:"column:name"`
	ParentID   *uuid.UUID `gorm:"column:parent_id"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (categoryModel) TableName() string { return "categories" }

type partnerModel struct {
	PartnerID             uuid.UUID `gorm:"column:partner_id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID            uuid.UUID `gorm:"column:category_id"`
	Name                  string    `gorm:"column:name"`
	Description           string    `gorm:"column:description"`
	ReductionType         string    `gorm:"column:reduction_type"`
	ReductionValuePremium int64     `gorm:"column:reduction_value_premium"`
	ReductionValueSocios  int64     `gorm:"column:reduction_value_socios"`
	Status                string    `gorm:"column:status"`
	FeaturedOrder         int       `gorm:"column:featured_order"`
	City                  string    `gorm:"column:city"`
	Latitude              *float64  `gorm:"column:latitude"`
	Longitude             *float64  `gorm:"column:longitude"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at"`
}

func (partnerModel) TableName() string { return "partners" }

type offerModel struct {
	OfferID            uuid.UUID `gorm:"column:offer_id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartnerID          uuid.UUID `gorm:"column:partner_id"`
	Title              string    `gorm:"column:title"`
	Description        string    `gorm:"column:description"`
	ReductionType      string    `gorm:"column:reduction_type"`
	ReductionValue     int64     `gorm:"column:reduction_value"`
	MembershipRequired string    `gorm:"column:membership_required"`
	ValidFrom          time.Time `gorm:"column:valid_from"`
	ValidUntil         time.Time `gorm:"column:valid_until"`
	StockAvailable     *int64    `gorm:"column:stock_available"`
	StockUsed          int64     `gorm:"column:stock_used"`
	UserLimitPerDay    *int      `gorm:"column:user_limit_per_day"`
	UserLimitPerMonth  *int      `gorm:"column:user_limit_per_month"`
	Status             string    `gorm:"column:status"`
	DisplayOrder       int       `gorm:"column:display_order"`
	ViewsCount         int64     `gorm:"column:views_count"`
	ClicksCount        int64     `gorm:"column:clicks_count"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (offerModel) TableName() string { return "partner_offers" }

type reductionCodeModel struct {
	CodeID        uuid.UUID  `gorm:"column:code_id;type:uuid;primaryKey"`
	UserID        uuid.UUID  `gorm:"column:user_id"`
	OfferID       uuid.UUID  `gorm:"column:offer_id"`
	Code          string     `gorm:"column:code"`
	Type          string     `gorm:"column:type"`
	Status        string     `gorm:"column:status"`
	ReductionType string     `gorm:"column:reduction_type"`
	DiscountValue int64      `gorm:"column:discount_value"`
	UsesCount     int        `gorm:"column:uses_count"`
	MaxUses       int        `gorm:"column:max_uses"`
	ExpiresAt     time.Time  `gorm:"column:expires_at"`
	UsedAt        *time.Time `gorm:"column:used_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
}

func (reductionCodeModel) TableName() string { return "reduction_codes" }

type codeUsageModel struct {
	UsageID         uuid.UUID `gorm:"column:usage_id;type:uuid;primaryKey"`
	ReductionCodeID uuid.UUID `gorm:"column:reduction_code_id"`
	OriginalAmount  *int64    `gorm:"column:original_amount"`
	DiscountAmount  int64     `gorm:"column:discount_amount"`
	FinalAmount     int64     `gorm:"column:final_amount"`
	UsedAt          time.Time `gorm:"column:used_at"`
}

func (codeUsageModel) TableName() string { return "code_usages" }

// userQuotaModel backs the per-user issuance caps. One row per
// (user, offer, period); the count only moves through guarded increments.
type userQuotaModel struct {
	UserID    uuid.UUID `gorm:"column:user_id;primaryKey"`
	OfferID   uuid.UUID `gorm:"column:offer_id;primaryKey"`
	Period    string    `gorm:"column:period;primaryKey"`
	PeriodKey string    `gorm:"column:period_key;primaryKey"`
	Count     int       `gorm:"column:count"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userQuotaModel) TableName() string { return "user_quotas" }

type loyaltyAccountModel struct {
	UserID    uuid.UUID `gorm:"column:user_id;primaryKey"`
	Points    int64     `gorm:"column:points"`
	Level     string    `gorm:"column:level"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (loyaltyAccountModel) TableName() string { return "loyalty_accounts" }

type outboxModel struct {
	OutboxID       uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	PartitionKey   string     `gorm:"column:partition_key"`
	Payload        string     `gorm:"column:payload;type:jsonb"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	FirstSeenAt    time.Time  `gorm:"column:first_seen_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (outboxModel) TableName() string { return "privileges_outbox" }

type idempotencyModel struct {
	IdempotencyKey string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash    string    `gorm:"column:request_hash"`
	Status         string    `gorm:"column:status"`
	ResponseCode   int       `gorm:"column:response_code"`
	ResponseBody   *string   `gorm:"column:response_body;type:jsonb"`
	ExpiresAt      time.Time `gorm:"column:expires_at"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (idempotencyModel) TableName() string { return "privileges_idempotency" }
