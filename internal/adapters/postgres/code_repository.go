package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cssclub/privileges-service/internal/domain"
	"github.com/cssclub/privileges-service/internal/ports"
)

type codeRepository struct {
	db *gorm.DB
}

// IssueTx commits the whole generation unit or none of it: the guarded
// stock increment, the guarded per-user quota increments, the code row and
// the outbox events. Each guard is a conditional UPDATE whose RowsAffected
// is the verdict, so two racing generators can never both take the last
// unit of stock.
func (r *codeRepository) IssueTx(ctx context.Context, params ports.IssueCodeTxParams) (domain.ReductionCode, error) {
	row := reductionCodeModel{
		CodeID:        params.Code.CodeID,
		UserID:        params.Code.UserID,
		OfferID:       params.Code.OfferID,
		Code:          params.Code.Code,
		Type:          string(params.Code.Type),
		Status:        string(params.Code.Status),
		ReductionType: string(params.Code.ReductionType),
		DiscountValue: params.Code.DiscountValue,
		UsesCount:     params.Code.UsesCount,
		MaxUses:       params.Code.MaxUses,
		ExpiresAt:     params.Code.ExpiresAt,
		CreatedAt:     params.Code.CreatedAt,
	}
	now := params.Code.CreatedAt

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stock := tx.Model(&offerModel{}).
			Where("offer_id = ?", params.Code.OfferID).
			Where("status = ?", string(domain.OfferActive))
		if params.EnforceStock {
			stock = stock.Where("stock_available IS NOT NULL").
				Where("stock_used < stock_available")
		}
		res := stock.Updates(map[string]any{
			"stock_used": gorm.Expr("stock_used + 1"),
			"updated_at": now,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Distinguish a lost stock race from an offer deactivated
			// between the application's precheck and this transaction.
			var offer offerModel
			if err := tx.Where("offer_id = ?", params.Code.OfferID).Take(&offer).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrNotFound
				}
				return err
			}
			if offer.Status != string(domain.OfferActive) {
				return domain.ErrOfferNotValid
			}
			return domain.ErrStockExhausted
		}

		if params.DailyLimit != nil {
			if err := bumpQuota(tx, params.Code.UserID, params.Code.OfferID, "day", params.DayKey, *params.DailyLimit, now, domain.ErrDailyLimitExceeded); err != nil {
				return err
			}
		}
		if params.MonthlyLimit != nil {
			if err := bumpQuota(tx, params.Code.UserID, params.Code.OfferID, "month", params.MonthKey, *params.MonthlyLimit, now, domain.ErrMonthlyLimitExceeded); err != nil {
				return err
			}
		}

		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: code string collision", domain.ErrConflict)
			}
			return err
		}

		if err := enqueueOutboxTx(tx, params.GeneratedEvent); err != nil {
			return err
		}
		if params.LowStockEvent != nil && params.EnforceStock {
			crossed, err := stockBelowThreshold(tx, params.Code.OfferID, params.LowStockThresholdPct)
			if err != nil {
				return err
			}
			if crossed {
				if err := enqueueOutboxTx(tx, *params.LowStockEvent); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return domain.ReductionCode{}, err
	}
	return toDomainCode(row), nil
}

// bumpQuota seeds the period row if absent, then applies the conditional
// increment. The cap check and the increment are one statement, which is
// what makes concurrent over-cap attempts impossible rather than unlikely.
func bumpQuota(tx *gorm.DB, userID, offerID uuid.UUID, period, periodKey string, limit int, now any, exceeded error) error {
	seed := userQuotaModel{
		UserID:    userID,
		OfferID:   offerID,
		Period:    period,
		PeriodKey: periodKey,
		Count:     0,
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil && !isUniqueViolation(err) {
		return err
	}

	res := tx.Model(&userQuotaModel{}).
		Where("user_id = ? AND offer_id = ? AND period = ? AND period_key = ?", userID, offerID, period, periodKey).
		Where("count < ?", limit).
		Updates(map[string]any{
			"count":      gorm.Expr("count + 1"),
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return exceeded
	}
	return nil
}

func stockBelowThreshold(tx *gorm.DB, offerID uuid.UUID, thresholdPct int) (bool, error) {
	var offer offerModel
	if err := tx.Where("offer_id = ?", offerID).Take(&offer).Error; err != nil {
		return false, err
	}
	if offer.StockAvailable == nil || *offer.StockAvailable <= 0 {
		return false, nil
	}
	remaining := *offer.StockAvailable - offer.StockUsed
	if remaining <= 0 {
		return false, nil
	}
	pct := 100 * remaining / *offer.StockAvailable
	return pct < int64(thresholdPct), nil
}

func (r *codeRepository) GetByCode(ctx context.Context, code string) (domain.ReductionCode, error) {
	var row reductionCodeModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReductionCode{}, domain.ErrNotFound
		}
		return domain.ReductionCode{}, err
	}
	return toDomainCode(row), nil
}

func (r *codeRepository) ListByUser(ctx context.Context, userID uuid.UUID, status domain.CodeStatus, limit, offset int) ([]domain.ReductionCode, int64, error) {
	query := r.db.WithContext(ctx).Model(&reductionCodeModel{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []reductionCodeModel
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	codes := make([]domain.ReductionCode, 0, len(rows))
	for _, row := range rows {
		codes = append(codes, toDomainCode(row))
	}
	return codes, total, nil
}

// RedeemTx consumes one use under a row lock. The lock serializes racing
// redemptions of the same code; the guarded increment stays as a backstop
// so a logic slip can still never push uses_count past max_uses.
func (r *codeRepository) RedeemTx(ctx context.Context, params ports.RedeemCodeTxParams) (domain.CodeUsage, domain.ReductionCode, error) {
	var codeRow reductionCodeModel
	var usageRow codeUsageModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code_id = ?", params.CodeID).
			Take(&codeRow).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCodeNotFound
			}
			return err
		}

		current := toDomainCode(codeRow)
		if current.IsExpired(params.Now) {
			return domain.ErrCodeExpired
		}
		if current.IsUsedUp() {
			return domain.ErrCodeExhausted
		}
		if current.Status != domain.CodeActive {
			return domain.ErrCodeNotActive
		}

		updates := map[string]any{
			"uses_count": gorm.Expr("uses_count + 1"),
		}
		if current.UsesCount+1 >= current.MaxUses {
			updates["status"] = string(domain.CodeUsed)
		}
		if codeRow.UsedAt == nil {
			updates["used_at"] = params.Now
		}
		res := tx.Model(&reductionCodeModel{}).
			Where("code_id = ?", params.CodeID).
			Where("uses_count < max_uses").
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrConflict
		}

		usageRow = codeUsageModel{
			UsageID:         uuid.New(),
			ReductionCodeID: params.CodeID,
			OriginalAmount:  params.OriginalAmount,
			DiscountAmount:  params.DiscountAmount,
			FinalAmount:     params.FinalAmount,
			UsedAt:          params.Now,
		}
		if err := tx.Create(&usageRow).Error; err != nil {
			return err
		}

		if params.LoyaltyPoints > 0 {
			if err := awardLoyalty(tx, codeRow.UserID, params.LoyaltyPoints, params.Now); err != nil {
				return err
			}
		}

		if err := enqueueOutboxTx(tx, params.RedeemedEvent); err != nil {
			return err
		}

		return tx.Where("code_id = ?", params.CodeID).Take(&codeRow).Error
	})
	if err != nil {
		return domain.CodeUsage{}, domain.ReductionCode{}, err
	}
	return toDomainUsage(usageRow), toDomainCode(codeRow), nil
}

func awardLoyalty(tx *gorm.DB, userID uuid.UUID, points int64, now any) error {
	seed := loyaltyAccountModel{
		UserID: userID,
		Points: 0,
		Level:  domain.LoyaltyLevel(0),
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil && !isUniqueViolation(err) {
		return err
	}
	if err := tx.Model(&loyaltyAccountModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"points":     gorm.Expr("points + ?", points),
			"updated_at": now,
		}).Error; err != nil {
		return err
	}

	var account loyaltyAccountModel
	if err := tx.Where("user_id = ?", userID).Take(&account).Error; err != nil {
		return err
	}
	return tx.Model(&loyaltyAccountModel{}).
		Where("user_id = ?", userID).
		Update("level", domain.LoyaltyLevel(account.Points)).Error
}

func (r *codeRepository) ListUsages(ctx context.Context, codeID uuid.UUID, limit, offset int) ([]domain.CodeUsage, error) {
	var rows []codeUsageModel
	if err := r.db.WithContext(ctx).
		Where("reduction_code_id = ?", codeID).
		Order("used_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	usages := make([]domain.CodeUsage, 0, len(rows))
	for _, row := range rows {
		usages = append(usages, toDomainUsage(row))
	}
	return usages, nil
}

func enqueueOutboxTx(tx *gorm.DB, event ports.OutboxEvent) error {
	rec := outboxModel{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      string(event.Payload),
		CreatedAt:    event.OccurredAt,
		FirstSeenAt:  event.OccurredAt,
	}
	return tx.Create(&rec).Error
}
