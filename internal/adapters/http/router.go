package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/cssclub/privileges-service/internal/application"
	"github.com/cssclub/privileges-service/internal/ports"
)

// Handler is the HTTP adapter entrypoint for the privileges use-cases.
// Keeping only the application dependency here preserves clean adapter boundaries.
type Handler struct {
	service  *application.Service
	verifier ports.TokenVerifier
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service, verifier ports.TokenVerifier) *Handler {
	return &Handler{service: service, verifier: verifier}
}

// NewRouter registers the privileges HTTP routes and middleware stack.
// Catalog browsing is public with an optional bearer token; an anonymous
// caller is treated as a free-tier member. Code generation and the member
// code list require a valid token.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Idempotency-Key", "X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(handler.optionalAuthMiddleware)
			r.Get("/categories", handler.listCategories)
			r.Get("/partners", handler.listPartners)
			r.Get("/partners/{partner_id}", handler.getPartner)
			r.Get("/offers", handler.listOffers)
			r.Get("/offers/{offer_id}", handler.getOffer)
			r.Post("/offers/{offer_id}/click", handler.recordOfferClick)
		})

		// Partner-side scanner endpoints identify the member through the
		// code itself, not a bearer token.
		r.Post("/codes/validate", handler.validateCode)
		r.Post("/codes/redeem", handler.redeemCode)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/codes/generate", handler.generateCode)
			r.Get("/codes/mine", handler.listMyCodes)
			r.Get("/loyalty/me", handler.getLoyalty)
		})
	})

	return r
}
