package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cssclub/privileges-service/internal/domain"
)

type loyaltyRepository struct {
	db *gorm.DB
}

func (r *loyaltyRepository) GetByUser(ctx context.Context, userID uuid.UUID) (domain.LoyaltyAccount, error) {
	var row loyaltyAccountModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoyaltyAccount{}, domain.ErrNotFound
		}
		return domain.LoyaltyAccount{}, err
	}
	return toDomainLoyalty(row), nil
}
