package ports

import (
	"time"

	"github.com/google/uuid"

	"github.com/cssclub/privileges-service/internal/domain"
)

// Principal is the authenticated caller extracted from an externally issued
// token. Identity and tier management live in the membership platform; this
// service only consumes the claims.
type Principal struct {
	UserID    uuid.UUID
	Tier      domain.MembershipTier
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenVerifier validates a bearer token and extracts the caller.
type TokenVerifier interface {
	Verify(token string) (Principal, error)
}
