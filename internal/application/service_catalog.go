package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cssclub/privileges-service/internal/domain"
	"github.com/cssclub/privileges-service/internal/ports"
)

// ListPartners returns active partners with the caller-tier discount
// resolved per row. Featured partners sort first; the repository owns the
// ordering so listings stay stable across pages.
func (s *Service) ListPartners(ctx context.Context, principal ports.Principal, q PartnersQuery) (PartnerListResponse, error) {
	filter := ports.PartnerFilter{
		City:         strings.TrimSpace(q.City),
		FeaturedOnly: q.FeaturedOnly,
		Status:       domain.PartnerActive,
	}
	if raw := strings.TrimSpace(q.CategoryID); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return PartnerListResponse{}, fmt.Errorf("%w: category_id must be a valid uuid", domain.ErrInvalidInput)
		}
		filter.CategoryID = &categoryID
	}

	page, perPage, offset := s.clampPage(q.Page, q.PerPage)
	partners, total, err := s.partners.List(ctx, filter, perPage, offset)
	if err != nil {
		return PartnerListResponse{}, err
	}

	items := make([]PartnerItem, 0, len(partners))
	for _, p := range partners {
		items = append(items, toPartnerItem(p, principal.Tier))
	}
	return PartnerListResponse{Items: items, Page: page, PerPage: perPage, Total: total}, nil
}

func (s *Service) GetPartner(ctx context.Context, principal ports.Principal, partnerID uuid.UUID) (PartnerItem, error) {
	partner, err := s.partners.GetByID(ctx, partnerID)
	if err != nil {
		return PartnerItem{}, err
	}
	if !partner.IsActive() {
		return PartnerItem{}, domain.ErrNotFound
	}
	return toPartnerItem(partner, principal.Tier), nil
}

func (s *Service) ListCategories(ctx context.Context) ([]CategoryItem, error) {
	categories, err := s.partners.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]CategoryItem, 0, len(categories))
	for _, c := range categories {
		items = append(items, CategoryItem{
			CategoryID: c.CategoryID,
			Name:       c.Name,
			ParentID:   c.ParentID,
		})
	}
	return items, nil
}

// ListOffers returns active offers with eligibility, discount and validity
// recomputed per row for the caller. Offers outside their window still list
// with is_valid=false so clients can show upcoming and just-closed deals.
func (s *Service) ListOffers(ctx context.Context, principal ports.Principal, q OffersQuery) (OfferListResponse, error) {
	filter := ports.OfferFilter{Status: domain.OfferActive}
	if raw := strings.TrimSpace(q.PartnerID); raw != "" {
		partnerID, err := uuid.Parse(raw)
		if err != nil {
			return OfferListResponse{}, fmt.Errorf("%w: partner_id must be a valid uuid", domain.ErrInvalidInput)
		}
		filter.PartnerID = &partnerID
	}

	page, perPage, offset := s.clampPage(q.Page, q.PerPage)
	offers, total, err := s.offers.List(ctx, filter, perPage, offset)
	if err != nil {
		return OfferListResponse{}, err
	}

	now := s.nowFn()
	items := make([]OfferItem, 0, len(offers))
	for _, o := range offers {
		items = append(items, toOfferItem(o, principal.Tier, now))
	}
	return OfferListResponse{Items: items, Page: page, PerPage: perPage, Total: total}, nil
}

// GetOffer serves the detail view and counts it as a view. The telemetry
// increment is best effort; a counter miss must never fail the read.
func (s *Service) GetOffer(ctx context.Context, principal ports.Principal, offerID uuid.UUID) (OfferItem, error) {
	offer, err := s.getOffer(ctx, offerID)
	if err != nil {
		return OfferItem{}, err
	}
	_ = s.offers.IncrementViews(ctx, offerID)
	return toOfferItem(offer, principal.Tier, s.nowFn()), nil
}

// RecordOfferClick tracks outbound interest in an offer.
func (s *Service) RecordOfferClick(ctx context.Context, offerID uuid.UUID) error {
	if err := s.offers.IncrementClicks(ctx, offerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// GetLoyalty reads the caller's point balance. Members who never redeemed
// anything get a zeroed bronze account rather than a 404.
func (s *Service) GetLoyalty(ctx context.Context, principal ports.Principal) (LoyaltyResponse, error) {
	account, err := s.loyalty.GetByUser(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return LoyaltyResponse{Points: 0, Level: domain.LoyaltyLevel(0)}, nil
		}
		return LoyaltyResponse{}, err
	}
	return LoyaltyResponse{Points: account.Points, Level: account.Level}, nil
}
