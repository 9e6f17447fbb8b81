package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gymaccess/internal/api"
	"gymaccess/internal/apperror"
	"gymaccess/internal/subscription"
	"gymaccess/internal/subscription/service"
)

type Handler struct {
	SubscriptionService *service.Service
}

func NewSubscriptionHandler(ss *service.Service) *Handler {
	return &Handler{SubscriptionService: ss}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/api/subscriptions", h.ListByStatus)
	r.Get("/api/subscriptions/expiring", h.ListExpiring)
	r.Get("/api/subscriptions/{id}", h.Get)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.WriteError(w, err)
		return
	}

	sub, err := h.SubscriptionService.Get(r.Context(), id)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, sub)
}

// ListByStatus serves ?status=active|expiring_soon|expired, defaulting to active.
func (h *Handler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := subscription.StatusActive
	if raw := r.URL.Query().Get("status"); raw != "" {
		s, ok := subscription.ParseStatus(raw)
		if !ok {
			api.WriteError(w, apperror.Validation("subscription.list_by_status",
				apperror.FieldError{Field: "status", Message: "must be active, expiring_soon or expired"}))
			return
		}
		status = s
	}

	subs, err := h.SubscriptionService.ListByStatus(r.Context(), status)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, subs)
}

// ListExpiring serves ?days=N, defaulting to service.DefaultExpiringDays.
func (h *Handler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	days := service.DefaultExpiringDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			api.WriteError(w, apperror.Validation("subscription.list_expiring",
				apperror.FieldError{Field: "days", Message: "must be a positive integer"}))
			return
		}
		days = n
	}

	subs, err := h.SubscriptionService.ListExpiringWithin(r.Context(), days)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, subs)
}
