package http

import (
	"net/http"

	"gymaccess/internal/api"
	"gymaccess/internal/dashboard/service"
)

type Handler struct {
	DashboardService *service.Service
}

func NewDashboardHandler(ds *service.Service) *Handler {
	return &Handler{DashboardService: ds}
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.DashboardService.Overview(r.Context())
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, ov)
}
