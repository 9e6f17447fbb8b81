package http

import (
	"net/http"

	"gymaccess/internal/admin/service"
	"gymaccess/internal/api"
	"gymaccess/internal/api/dto"
	"gymaccess/pkg/middleware"
)

type Handler struct {
	AdminService *service.AdminService
}

func NewHandler(as *service.AdminService) *Handler {
	return &Handler{AdminService: as}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "admin.login"

	var req dto.LoginRequest
	if err := api.DecodeJSON(r, op, &req); err != nil {
		api.WriteError(w, err)
		return
	}
	if err := dto.Check(op, req); err != nil {
		api.WriteError(w, err)
		return
	}

	res, err := h.AdminService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}

// Me returns the admin attached by middleware.JWTAuth.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		api.WriteJSON(w, http.StatusUnauthorized, api.ErrorResponse{Message: "unauthorized"})
		return
	}
	api.WriteJSON(w, http.StatusOK, a)
}
