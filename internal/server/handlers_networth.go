package server

import (
	"net/http"
)

// handleNetWorthHistory handles GET /api/net-worth/history?limit=...
func (s *Server) handleNetWorthHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	history, err := s.app.NetWorthService.History(r.Context(), QueryInt(r, "limit", 0))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, history)
}

// handleNetWorthChart handles GET /api/net-worth/chart.png?limit=...
func (s *Server) handleNetWorthChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	png, err := s.app.NetWorthService.RenderChart(r.Context(), QueryInt(r, "limit", 0))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
