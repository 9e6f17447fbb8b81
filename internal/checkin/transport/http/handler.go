package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gymaccess/internal/api"
	"gymaccess/internal/api/dto"
	"gymaccess/internal/apperror"
	"gymaccess/internal/checkin/service"
)

type Handler struct {
	CheckInService *service.Service
}

func NewCheckInHandler(cs *service.Service) *Handler {
	return &Handler{CheckInService: cs}
}

// Routes mounts the check-in endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api/checkins", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/present", h.ListPresent)
		r.Get("/authorized", h.ListByAuthorization)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	r.Get("/api/clients/{id}/checkins", h.ListByClient)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCheckInRequest
	if err := api.DecodeJSON(r, "checkin.create", &req); err != nil {
		api.WriteError(w, err)
		return
	}

	created, err := h.CheckInService.Create(r.Context(), req.Input())
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.WriteError(w, err)
		return
	}

	c, err := h.CheckInService.FindByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.WriteError(w, err)
		return
	}

	var req dto.UpdateCheckInRequest
	if err := api.DecodeJSON(r, "checkin.update", &req); err != nil {
		api.WriteError(w, err)
		return
	}

	updated, err := h.CheckInService.Update(r.Context(), id, req.Patch())
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.WriteError(w, err)
		return
	}

	removed, err := h.CheckInService.Delete(r.Context(), id)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, removed)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.CheckInService.ListAll(r.Context())
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, list)
}

// ListPresent lists clients currently in the gym (check-ins without exit).
func (h *Handler) ListPresent(w http.ResponseWriter, r *http.Request) {
	list, err := h.CheckInService.ListPresent(r.Context())
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, list)
}

// ListByAuthorization filters on ?authorized=true|false. Without the parameter it lists
// the denied check-ins.
func (h *Handler) ListByAuthorization(w http.ResponseWriter, r *http.Request) {
	authorized := false
	if raw := r.URL.Query().Get("authorized"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			api.WriteError(w, apperror.Validation("checkin.list_by_authorization",
				apperror.FieldError{Field: "authorized", Message: "must be true or false"}))
			return
		}
		authorized = v
	}

	list, err := h.CheckInService.ListByAuthorization(r.Context(), authorized)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) ListByClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := api.IDParam(r, "id")
	if err != nil {
		api.WriteError(w, err)
		return
	}

	list, err := h.CheckInService.ListByClient(r.Context(), clientID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, list)
}
