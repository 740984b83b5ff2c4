package http

import (
	"net/http"
	"strings"

	"github.com/cssclub/privileges-service/internal/application"
)

func (h *Handler) generateCode(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return
	}

	var req application.GenerateCodeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "generate_code", err)
		return
	}

	res, err := h.service.GenerateCode(r.Context(), principal, req, strings.TrimSpace(r.Header.Get("Idempotency-Key")))
	if err != nil {
		writeMappedError(r.Context(), w, "generate_code", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) validateCode(w http.ResponseWriter, r *http.Request) {
	var req application.ValidateCodeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "validate_code", err)
		return
	}

	res, err := h.service.ValidateCode(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "validate_code", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) redeemCode(w http.ResponseWriter, r *http.Request) {
	var req application.RedeemCodeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "redeem_code", err)
		return
	}

	res, err := h.service.RedeemCode(r.Context(), req, strings.TrimSpace(r.Header.Get("Idempotency-Key")))
	if err != nil {
		writeMappedError(r.Context(), w, "redeem_code", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) listMyCodes(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return
	}

	q := application.MyCodesQuery{
		Status:  strings.TrimSpace(r.URL.Query().Get("status")),
		Page:    parseIntDefault(r.URL.Query().Get("page"), 1),
		PerPage: parseIntDefault(r.URL.Query().Get("per_page"), 0),
	}

	res, err := h.service.ListMyCodes(r.Context(), principal, q)
	if err != nil {
		writeMappedError(r.Context(), w, "list_my_codes", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) getLoyalty(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return
	}

	res, err := h.service.GetLoyalty(r.Context(), principal)
	if err != nil {
		writeMappedError(r.Context(), w, "get_loyalty", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
