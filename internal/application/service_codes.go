package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cssclub/privileges-service/internal/domain"
	"github.com/cssclub/privileges-service/internal/ports"
)

// GenerateCode issues a redemption code for the calling member against one
// offer. Preconditions are checked in a fixed order so clients always see
// the most actionable failure; the stock and quota caps are re-decided by
// guarded updates inside the issue transaction, which is the only authority
// under concurrency.
func (s *Service) GenerateCode(ctx context.Context, principal ports.Principal, req GenerateCodeRequest, idempotencyKey string) (GenerateCodeResponse, error) {
	offerID, err := uuid.Parse(strings.TrimSpace(req.OfferID))
	if err != nil {
		return GenerateCodeResponse{}, fmt.Errorf("%w: offer_id must be a valid uuid", domain.ErrInvalidInput)
	}
	codeType, err := parseCodeType(req.Type)
	if err != nil {
		return GenerateCodeResponse{}, err
	}

	reserved := false
	if idempotencyKey != "" {
		replay, ok, err := s.replayIdempotent(ctx, idempotencyKey, req)
		if err != nil {
			return GenerateCodeResponse{}, err
		}
		if ok {
			var resp GenerateCodeResponse
			if err := json.Unmarshal(replay, &resp); err == nil {
				return resp, nil
			}
		} else {
			reserved = true
		}
	}
	// A failed attempt must not poison the key for the client's retry.
	defer func() {
		if reserved {
			_ = s.idempotency.Release(ctx, idempotencyKey)
		}
	}()

	offer, err := s.getOffer(ctx, offerID)
	if err != nil {
		return GenerateCodeResponse{}, err
	}

	now := s.nowFn()
	eval := domain.Evaluate(offer, now)
	if !eval.IsValid {
		return GenerateCodeResponse{}, fmt.Errorf("%w: offer %s is outside its validity window or inactive", domain.ErrOfferNotValid, offer.OfferID)
	}
	if eval.IsOutOfStock {
		return GenerateCodeResponse{}, domain.ErrStockExhausted
	}
	if !domain.TierEligible(principal.Tier, offer.MembershipRequired) {
		return GenerateCodeResponse{}, domain.ErrMembershipNotEligible
	}

	discount := domain.ResolveOfferDiscount(principal.Tier, offer)
	expiresAt := now.Add(s.cfg.CodeTTL)
	if offer.ValidUntil.Before(expiresAt) {
		expiresAt = offer.ValidUntil
	}

	var issued domain.ReductionCode
	for attempt := 0; attempt < s.cfg.CodeGenerationAttempts; attempt++ {
		codeString, err := domain.NewCodeString()
		if err != nil {
			return GenerateCodeResponse{}, fmt.Errorf("generate code string: %w", err)
		}

		code := domain.ReductionCode{
			CodeID:        uuid.New(),
			UserID:        principal.UserID,
			OfferID:       offer.OfferID,
			Code:          codeString,
			Type:          codeType,
			Status:        domain.CodeActive,
			ReductionType: discount.Type,
			DiscountValue: discount.Amount,
			UsesCount:     0,
			MaxUses:       s.cfg.DefaultMaxUses,
			ExpiresAt:     expiresAt,
			CreatedAt:     now,
		}

		issued, err = s.codes.IssueTx(ctx, ports.IssueCodeTxParams{
			Code:                 code,
			EnforceStock:         offer.StockAvailable != nil,
			DailyLimit:           offer.UserLimitPerDay,
			MonthlyLimit:         offer.UserLimitPerMonth,
			DayKey:               now.Format("2006-01-02"),
			MonthKey:             now.Format("2006-01"),
			GeneratedEvent:       s.codeGeneratedEvent(code, now),
			LowStockEvent:        s.lowStockEvent(offer, now),
			LowStockThresholdPct: s.cfg.LowStockThresholdPct,
		})
		if err == nil {
			break
		}
		// A unique-index collision on the code string is the only retryable
		// failure; everything else is a real precondition verdict.
		if errors.Is(err, domain.ErrConflict) && attempt+1 < s.cfg.CodeGenerationAttempts {
			continue
		}
		return GenerateCodeResponse{}, err
	}

	resp := GenerateCodeResponse{
		Code:      issued.Code,
		Type:      string(issued.Type),
		ExpiresAt: issued.ExpiresAt,
		MaxUses:   issued.MaxUses,
	}
	if idempotencyKey != "" {
		body, _ := json.Marshal(resp)
		_ = s.idempotency.Complete(ctx, idempotencyKey, 201, body, s.nowFn())
		reserved = false
	}
	return resp, nil
}

// ValidateCode is the read-only lookup used by partner scanners before they
// commit a sale. Not-found is an outcome here, not an error; nothing is
// mutated, whatever state the code is in.
func (s *Service) ValidateCode(ctx context.Context, req ValidateCodeRequest) (ValidateCodeResponse, error) {
	codeString := strings.ToUpper(strings.TrimSpace(req.Code))
	if codeString == "" {
		return ValidateCodeResponse{}, fmt.Errorf("%w: code is required", domain.ErrInvalidInput)
	}

	code, err := s.codes.GetByCode(ctx, codeString)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ValidateCodeResponse{Status: "not_found"}, nil
		}
		return ValidateCodeResponse{}, err
	}

	now := s.nowFn()
	effective := code.EffectiveStatus(now)
	resp := ValidateCodeResponse{
		Status:    string(effective),
		IsExpired: code.IsExpired(now),
		IsUsedUp:  code.IsUsedUp(),
		IsActive:  effective == domain.CodeActive,
	}
	if offer, offerErr := s.getOffer(ctx, code.OfferID); offerErr == nil {
		resp.Offer = toOfferSnapshot(offer)
	}
	return resp, nil
}

// RedeemCode consumes one use of a code and appends the immutable ledger
// row. The discount comes from the issuance snapshot, so an offer edited
// after generation never changes what the member was promised. Each call
// that passes the preconditions is a distinct redemption; transport-level
// idempotency keys are the only dedupe.
func (s *Service) RedeemCode(ctx context.Context, req RedeemCodeRequest, idempotencyKey string) (RedeemCodeResponse, error) {
	codeString := strings.ToUpper(strings.TrimSpace(req.Code))
	if codeString == "" {
		return RedeemCodeResponse{}, fmt.Errorf("%w: code is required", domain.ErrInvalidInput)
	}
	if req.PurchaseAmount != nil && *req.PurchaseAmount < 0 {
		return RedeemCodeResponse{}, fmt.Errorf("%w: purchase_amount must not be negative", domain.ErrInvalidInput)
	}

	reserved := false
	if idempotencyKey != "" {
		replay, ok, err := s.replayIdempotent(ctx, idempotencyKey, req)
		if err != nil {
			return RedeemCodeResponse{}, err
		}
		if ok {
			var resp RedeemCodeResponse
			if err := json.Unmarshal(replay, &resp); err == nil {
				return resp, nil
			}
		} else {
			reserved = true
		}
	}
	defer func() {
		if reserved {
			_ = s.idempotency.Release(ctx, idempotencyKey)
		}
	}()

	code, err := s.codes.GetByCode(ctx, codeString)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return RedeemCodeResponse{}, domain.ErrCodeNotFound
		}
		return RedeemCodeResponse{}, err
	}

	now := s.nowFn()
	if code.IsExpired(now) {
		return RedeemCodeResponse{}, domain.ErrCodeExpired
	}
	if code.IsUsedUp() {
		return RedeemCodeResponse{}, domain.ErrCodeExhausted
	}
	if code.Status != domain.CodeActive {
		return RedeemCodeResponse{}, domain.ErrCodeNotActive
	}

	discountAmount, finalAmount := redemptionAmounts(code.Discount(), req.PurchaseAmount)

	usage, updated, err := s.codes.RedeemTx(ctx, ports.RedeemCodeTxParams{
		CodeID:         code.CodeID,
		Now:            now,
		OriginalAmount: req.PurchaseAmount,
		DiscountAmount: discountAmount,
		FinalAmount:    finalAmount,
		LoyaltyPoints:  loyaltyPointsFor(discountAmount),
		RedeemedEvent:  s.codeRedeemedEvent(code, discountAmount, finalAmount, now),
	})
	if err != nil {
		return RedeemCodeResponse{}, err
	}

	resp := RedeemCodeResponse{
		Code:           updated.Code,
		DiscountAmount: usage.DiscountAmount,
		FinalAmount:    usage.FinalAmount,
		UsesRemaining:  updated.RemainingUses(),
	}
	if idempotencyKey != "" {
		body, _ := json.Marshal(resp)
		_ = s.idempotency.Complete(ctx, idempotencyKey, 200, body, s.nowFn())
		reserved = false
	}
	return resp, nil
}

// ListMyCodes returns the caller's codes with the lazy-expiry overlay
// applied per row. The optional status filter matches the stored status;
// rows whose effective state has drifted past it still carry the computed
// booleans so clients can render them correctly.
func (s *Service) ListMyCodes(ctx context.Context, principal ports.Principal, q MyCodesQuery) (CodeListResponse, error) {
	statusFilter, err := parseCodeStatusFilter(q.Status)
	if err != nil {
		return CodeListResponse{}, err
	}
	page, perPage, offset := s.clampPage(q.Page, q.PerPage)

	codes, total, err := s.codes.ListByUser(ctx, principal.UserID, statusFilter, perPage, offset)
	if err != nil {
		return CodeListResponse{}, err
	}

	now := s.nowFn()
	items := make([]CodeItem, 0, len(codes))
	for _, c := range codes {
		items = append(items, toCodeItem(c, now))
	}
	return CodeListResponse{Items: items, Page: page, PerPage: perPage, Total: total}, nil
}

// redemptionAmounts applies the snapshot discount to the purchase amount.
// Without a purchase amount only a fixed snapshot has a cash value to
// record; a percentage has no base amount to apply to and the ledger
// carries zero cents for it.
func redemptionAmounts(d domain.Discount, purchaseAmount *int64) (int64, int64) {
	if purchaseAmount == nil {
		if d.Type == domain.ReductionFixed {
			return d.Amount, 0
		}
		return 0, 0
	}
	return domain.ApplyDiscount(d, *purchaseAmount)
}

// loyaltyPointsFor awards one point per whole euro of discount, with a floor
// of one point per redemption so small purchases still count.
func loyaltyPointsFor(discountAmount int64) int64 {
	points := discountAmount / 100
	if points < 1 {
		points = 1
	}
	return points
}

func parseCodeType(raw string) (domain.CodeType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(domain.CodeQR):
		return domain.CodeQR, nil
	case string(domain.CodePromo):
		return domain.CodePromo, nil
	case string(domain.CodeNFC):
		return domain.CodeNFC, nil
	default:
		return "", fmt.Errorf("%w: unsupported code type", domain.ErrInvalidInput)
	}
}

func parseCodeStatusFilter(raw string) (domain.CodeStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case string(domain.CodeActive):
		return domain.CodeActive, nil
	case string(domain.CodeUsed):
		return domain.CodeUsed, nil
	case string(domain.CodeExpired):
		return domain.CodeExpired, nil
	case string(domain.CodeCancelled):
		return domain.CodeCancelled, nil
	default:
		return "", fmt.Errorf("%w: unsupported status filter", domain.ErrInvalidInput)
	}
}

func (s *Service) codeGeneratedEvent(code domain.ReductionCode, now time.Time) ports.OutboxEvent {
	payload, _ := json.Marshal(map[string]any{
		"code_id":    code.CodeID,
		"user_id":    code.UserID,
		"offer_id":   code.OfferID,
		"type":       code.Type,
		"expires_at": code.ExpiresAt,
	})
	return ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    "code.generated",
		PartitionKey: code.OfferID.String(),
		Payload:      payload,
		OccurredAt:   now,
	}
}

func (s *Service) codeRedeemedEvent(code domain.ReductionCode, discountAmount, finalAmount int64, now time.Time) ports.OutboxEvent {
	payload, _ := json.Marshal(map[string]any{
		"code_id":         code.CodeID,
		"user_id":         code.UserID,
		"offer_id":        code.OfferID,
		"discount_amount": discountAmount,
		"final_amount":    finalAmount,
		"used_at":         now,
	})
	return ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    "code.redeemed",
		PartitionKey: code.OfferID.String(),
		Payload:      payload,
		OccurredAt:   now,
	}
}

func (s *Service) lowStockEvent(offer domain.PartnerOffer, now time.Time) *ports.OutboxEvent {
	if offer.StockAvailable == nil {
		return nil
	}
	payload, _ := json.Marshal(map[string]any{
		"offer_id":   offer.OfferID,
		"partner_id": offer.PartnerID,
		"title":      offer.Title,
	})
	return &ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    "offer.low_stock",
		PartitionKey: offer.OfferID.String(),
		Payload:      payload,
		OccurredAt:   now,
	}
}
