package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/dto"
	"github.com/MiguelMaleico/credit360-smart-market/internal/application/usecase"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/auth"
)

// UseCases bundles the application operations exposed over REST.
type UseCases struct {
	Register            *usecase.RegisterUseCase
	Login               *usecase.LoginUseCase
	Logout              *usecase.LogoutUseCase
	Authenticate        Authenticator
	GetConsent          *usecase.GetConsentUseCase
	AuthorizeConsent    *usecase.AuthorizeConsentUseCase
	RevokeConsent       *usecase.RevokeConsentUseCase
	AnalyzeProfile      *usecase.AnalyzeProfileUseCase
	GetProfile          *usecase.GetProfileUseCase
	ListTransactions    *usecase.ListTransactionsUseCase
	ListOffers          *usecase.ListOffersUseCase
	SimulateInstallment *usecase.SimulateInstallmentUseCase
	PartnerOffers       *usecase.PartnerOffersUseCase
	Notifications       *usecase.NotificationsUseCase
}

// Handler serves the marketplace REST API.
type Handler struct {
	uc     UseCases
	logger *slog.Logger
}

// NewHandler creates a REST handler over the given use cases.
func NewHandler(uc UseCases, logger *slog.Logger) *Handler {
	return &Handler{uc: uc, logger: logger}
}

// RegisterRoutes mounts the API on r. Callers mount r under /api/v1.
func (h *Handler) RegisterRoutes(r chi.Router) {
	requireAuth := RequireAuth(h.uc.Authenticate)

	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.With(OptionalAuth(h.uc.Authenticate)).Get("/offers", h.listOffers)
	r.Post("/offers/{id}/simulate", h.simulate)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/auth/logout", h.logout)
		r.Get("/auth/me", h.me)

		r.Get("/consent", h.getConsent)
		r.Post("/consent/authorize", h.authorizeConsent)
		r.Post("/consent/revoke", h.revokeConsent)

		r.Post("/profile/analyze", h.analyzeProfile)
		r.Get("/profile", h.getProfile)
		r.Get("/transactions", h.listTransactions)

		r.Get("/partner/offers", h.listPartnerOffers)
		r.Post("/partner/offers", h.createPartnerOffer)
		r.Put("/partner/offers/{id}", h.updatePartnerOffer)
		r.Delete("/partner/offers/{id}", h.deletePartnerOffer)

		r.Get("/notifications", h.listNotifications)
		r.Post("/notifications/{id}/read", h.markNotificationRead)
	})
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.uc.Register.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.uc.Login.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token, _ := auth.BearerToken(r.Header.Get("Authorization"))
	if err := h.uc.Logout.Execute(r.Context(), token); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	writeJSON(w, http.StatusOK, dto.UserResponse{
		ID:    p.UserID,
		Name:  p.Name,
		Email: p.Email,
		Role:  p.Role,
	})
}

// ---------------------------------------------------------------------------
// Consent, profile and transactions
// ---------------------------------------------------------------------------

func (h *Handler) getConsent(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.GetConsent.Execute(r.Context(), principal(r).UserID)
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) authorizeConsent(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.AuthorizeConsent.Execute(r.Context(), principal(r))
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) revokeConsent(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.RevokeConsent.Execute(r.Context(), principal(r))
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) analyzeProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.AnalyzeProfile.Execute(r.Context(), principal(r))
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.GetProfile.Execute(r.Context(), principal(r).UserID)
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.ListTransactions.Execute(r.Context(), principal(r).UserID)
	h.respond(w, r, http.StatusOK, resp, err)
}

// ---------------------------------------------------------------------------
// Offers
// ---------------------------------------------------------------------------

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request) {
	filters, err := parseOfferFilters(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	req := dto.ListOffersRequest{Filters: filters}
	if p, ok := PrincipalFromContext(r.Context()); ok {
		req.UserID = p.UserID
	}
	resp, err := h.uc.ListOffers.Execute(r.Context(), req)
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) simulate(w http.ResponseWriter, r *http.Request) {
	var req dto.SimulateInstallmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.OfferID = chi.URLParam(r, "id")

	resp, err := h.uc.SimulateInstallment.Execute(r.Context(), req)
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) listPartnerOffers(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.PartnerOffers.List(r.Context(), principal(r))
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) createPartnerOffer(w http.ResponseWriter, r *http.Request) {
	var req dto.OfferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.uc.PartnerOffers.Create(r.Context(), principal(r), req)
	h.respond(w, r, http.StatusCreated, resp, err)
}

func (h *Handler) updatePartnerOffer(w http.ResponseWriter, r *http.Request) {
	var req dto.OfferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.uc.PartnerOffers.Update(r.Context(), principal(r), chi.URLParam(r, "id"), req)
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) deletePartnerOffer(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.PartnerOffers.Delete(r.Context(), principal(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Notifications
// ---------------------------------------------------------------------------

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.Notifications.List(r.Context(), principal(r).UserID)
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.Notifications.MarkRead(r.Context(), principal(r).UserID, chi.URLParam(r, "id"))
	h.respond(w, r, http.StatusOK, resp, err)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, body any, err error) {
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, status, body)
}

// principal returns the authenticated caller. Only valid behind RequireAuth.
func principal(r *http.Request) dto.Principal {
	p, _ := PrincipalFromContext(r.Context())
	return p
}
