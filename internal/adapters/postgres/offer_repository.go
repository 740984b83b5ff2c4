package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cssclub/privileges-service/internal/domain"
	"github.com/cssclub/privileges-service/internal/ports"
)

type offerRepository struct {
	db *gorm.DB
}

func (r *offerRepository) GetByID(ctx context.Context, offerID uuid.UUID) (domain.PartnerOffer, error) {
	var row offerModel
	if err := r.db.WithContext(ctx).Where("offer_id = ?", offerID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PartnerOffer{}, domain.ErrNotFound
		}
		return domain.PartnerOffer{}, err
	}
	return toDomainOffer(row), nil
}

func (r *offerRepository) List(ctx context.Context, filter ports.OfferFilter, limit, offset int) ([]domain.PartnerOffer, int64, error) {
	query := r.db.WithContext(ctx).Model(&offerModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.PartnerID != nil {
		query = query.Where("partner_id = ?", *filter.PartnerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []offerModel
	if err := query.
		Order("display_order ASC, valid_until ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	offers := make([]domain.PartnerOffer, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, toDomainOffer(row))
	}
	return offers, total, nil
}

func (r *offerRepository) IncrementViews(ctx context.Context, offerID uuid.UUID) error {
	return r.bumpCounter(ctx, offerID, "views_count")
}

func (r *offerRepository) IncrementClicks(ctx context.Context, offerID uuid.UUID) error {
	return r.bumpCounter(ctx, offerID, "clicks_count")
}

func (r *offerRepository) bumpCounter(ctx context.Context, offerID uuid.UUID, column string) error {
	res := r.db.WithContext(ctx).
		Model(&offerModel{}).
		Where("offer_id = ?", offerID).
		Update(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
