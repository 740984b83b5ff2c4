package security

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cssclub/privileges-service/internal/domain"
	"github.com/cssclub/privileges-service/internal/ports"
)

// JWTVerifier validates RS256 bearer tokens minted by the membership
// platform. This service holds only the issuer's public key; it never signs
// anything, which keeps credential management entirely external.
type JWTVerifier struct {
	issuer    string
	publicKey *rsa.PublicKey
}

func NewJWTVerifier(issuer, publicKeyPEM string) (*JWTVerifier, error) {
	if publicKeyPEM == "" {
		return nil, errors.New("issuer public key is required")
	}
	pub, err := parseRSAPublic(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse issuer public key: %w", err)
	}
	return &JWTVerifier{issuer: issuer, publicKey: pub}, nil
}

type memberClaims struct {
	MembershipTier string `json:"membership_tier"`
	jwt.RegisteredClaims
}

// Verify parses the token and extracts the member id and tier. An unknown
// or missing tier claim degrades to free rather than failing, mirroring the
// tier resolver's total-function contract.
func (v *JWTVerifier) Verify(raw string) (ports.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithLeeway(30 * time.Second),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(raw, &memberClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return v.publicKey, nil
	}, opts...)
	if err != nil {
		return ports.Principal{}, domain.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*memberClaims)
	if !ok || !parsed.Valid {
		return ports.Principal{}, domain.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ports.Principal{}, domain.ErrUnauthorized
	}

	principal := ports.Principal{
		UserID: userID,
		Tier:   domain.ParseTier(claims.MembershipTier),
	}
	if claims.IssuedAt != nil {
		principal.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return principal, nil
}

func parseRSAPublic(raw string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return nil, errors.New("invalid public PEM")
	}
	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}
	keyAny, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := keyAny.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not RSA")
	}
	return key, nil
}
