package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cssclub/privileges-service/internal/application"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "list_categories", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"items": res})
}

func (h *Handler) listPartners(w http.ResponseWriter, r *http.Request) {
	q := application.PartnersQuery{
		CategoryID:   strings.TrimSpace(r.URL.Query().Get("category_id")),
		City:         strings.TrimSpace(r.URL.Query().Get("city")),
		FeaturedOnly: r.URL.Query().Get("featured") == "true",
		Page:         parseIntDefault(r.URL.Query().Get("page"), 1),
		PerPage:      parseIntDefault(r.URL.Query().Get("per_page"), 0),
	}

	res, err := h.service.ListPartners(r.Context(), principalOrAnonymous(r), q)
	if err != nil {
		writeMappedError(r.Context(), w, "list_partners", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) getPartner(w http.ResponseWriter, r *http.Request) {
	partnerID, err := uuid.Parse(chi.URLParam(r, "partner_id"))
	if err != nil {
		writeValidationError(r.Context(), w, "get_partner", errors.New("partner_id must be a UUID"))
		return
	}

	res, err := h.service.GetPartner(r.Context(), principalOrAnonymous(r), partnerID)
	if err != nil {
		writeMappedError(r.Context(), w, "get_partner", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request) {
	q := application.OffersQuery{
		PartnerID: strings.TrimSpace(r.URL.Query().Get("partner_id")),
		Page:      parseIntDefault(r.URL.Query().Get("page"), 1),
		PerPage:   parseIntDefault(r.URL.Query().Get("per_page"), 0),
	}

	res, err := h.service.ListOffers(r.Context(), principalOrAnonymous(r), q)
	if err != nil {
		writeMappedError(r.Context(), w, "list_offers", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) getOffer(w http.ResponseWriter, r *http.Request) {
	offerID, err := uuid.Parse(chi.URLParam(r, "offer_id"))
	if err != nil {
		writeValidationError(r.Context(), w, "get_offer", errors.New("offer_id must be a UUID"))
		return
	}

	res, err := h.service.GetOffer(r.Context(), principalOrAnonymous(r), offerID)
	if err != nil {
		writeMappedError(r.Context(), w, "get_offer", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) recordOfferClick(w http.ResponseWriter, r *http.Request) {
	offerID, err := uuid.Parse(chi.URLParam(r, "offer_id"))
	if err != nil {
		writeValidationError(r.Context(), w, "record_offer_click", errors.New("offer_id must be a UUID"))
		return
	}

	if err := h.service.RecordOfferClick(r.Context(), offerID); err != nil {
		writeMappedError(r.Context(), w, "record_offer_click", err)
		return
	}
	writeMessage(w, http.StatusOK, "recorded")
}
