package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/cssclub/privileges-service/internal/domain"
)

func toDomainCategory(row categoryModel) domain.Category {
	return domain.Category{
		CategoryID: row.CategoryID,
		Name:       row.Name,
		ParentID:   row.ParentID,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func toDomainPartner(row partnerModel) domain.Partner {
	return domain.Partner{
		PartnerID:             row.PartnerID,
		CategoryID:            row.CategoryID,
		Name:                  row.Name,
		Description:           row.Description,
		ReductionType:         domain.ReductionType(row.ReductionType),
		ReductionValuePremium: row.ReductionValuePremium,
		ReductionValueSocios:  row.ReductionValueSocios,
		Status:                domain.PartnerStatus(row.Status),
		FeaturedOrder:         row.FeaturedOrder,
		City:                  row.City,
		Latitude:              row.Latitude,
		Longitude:             row.Longitude,
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
	}
}

func toDomainOffer(row offerModel) domain.PartnerOffer {
	return domain.PartnerOffer{
		OfferID:            row.OfferID,
		PartnerID:          row.PartnerID,
		Title:              row.Title,
		Description:        row.Description,
		ReductionType:      domain.ReductionType(row.ReductionType),
		ReductionValue:     row.ReductionValue,
		MembershipRequired: domain.MembershipGate(row.MembershipRequired),
		ValidFrom:          row.ValidFrom,
		ValidUntil:         row.ValidUntil,
		StockAvailable:     row.StockAvailable,
		StockUsed:          row.StockUsed,
		UserLimitPerDay:    row.UserLimitPerDay,
		UserLimitPerMonth:  row.UserLimitPerMonth,
		Status:             domain.OfferStatus(row.Status),
		DisplayOrder:       row.DisplayOrder,
		ViewsCount:         row.ViewsCount,
		ClicksCount:        row.ClicksCount,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

func toDomainCode(row reductionCodeModel) domain.ReductionCode {
	return domain.ReductionCode{
		CodeID:        row.CodeID,
		UserID:        row.UserID,
		OfferID:       row.OfferID,
		Code:          row.Code,
		Type:          domain.CodeType(row.Type),
		Status:        domain.CodeStatus(row.Status),
		ReductionType: domain.ReductionType(row.ReductionType),
		DiscountValue: row.DiscountValue,
		UsesCount:     row.UsesCount,
		MaxUses:       row.MaxUses,
		ExpiresAt:     row.ExpiresAt,
		UsedAt:        row.UsedAt,
		CreatedAt:     row.CreatedAt,
	}
}

func toDomainUsage(row codeUsageModel) domain.CodeUsage {
	return domain.CodeUsage{
		UsageID:         row.UsageID,
		ReductionCodeID: row.ReductionCodeID,
		OriginalAmount:  row.OriginalAmount,
		DiscountAmount:  row.DiscountAmount,
		FinalAmount:     row.FinalAmount,
		UsedAt:          row.UsedAt,
	}
}

func toDomainLoyalty(row loyaltyAccountModel) domain.LoyaltyAccount {
	return domain.LoyaltyAccount{
		UserID:    row.UserID,
		Points:    row.Points,
		Level:     row.Level,
		UpdatedAt: row.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
