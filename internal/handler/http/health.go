package http

import (
	"net/http"

	"github.com/MKhiriev/go-field-sync/internal/utils"
)

// health answers the reachability probe of clients and load balancers.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{
		"status":  "ok",
		"version": h.services.AppInfoService.GetAppVersion(r.Context()),
	}, http.StatusOK)
}
