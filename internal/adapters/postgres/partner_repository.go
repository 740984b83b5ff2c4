package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cssclub/privileges-service/internal/domain"
	"github.com/cssclub/privileges-service/internal/ports"
)

type partnerRepository struct {
	db *gorm.DB
}

func (r *partnerRepository) GetByID(ctx context.Context, partnerID uuid.UUID) (domain.Partner, error) {
	var row partnerModel
	if err := r.db.WithContext(ctx).Where("partner_id = ?", partnerID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Partner{}, domain.ErrNotFound
		}
		return domain.Partner{}, err
	}
	return toDomainPartner(row), nil
}

// List orders featured partners first by their rank, then the rest by name,
// so the same query serves both the carousel and the directory.
func (r *partnerRepository) List(ctx context.Context, filter ports.PartnerFilter, limit, offset int) ([]domain.Partner, int64, error) {
	query := r.db.WithContext(ctx).Model(&partnerModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.City != "" {
		query = query.Where("city ILIKE ?", filter.City)
	}
	if filter.FeaturedOnly {
		query = query.Where("featured_order > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []partnerModel
	if err := query.
		Order("CASE WHEN featured_order > 0 THEN 0 ELSE 1 END, featured_order ASC, name ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	partners := make([]domain.Partner, 0, len(rows))
	for _, row := range rows {
		partners = append(partners, toDomainPartner(row))
	}
	return partners, total, nil
}

func (r *partnerRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, toDomainCategory(row))
	}
	return categories, nil
}
