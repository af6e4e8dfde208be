package server

import (
	"net/http"
)

// handlePortfolios handles GET /api/portfolios and POST /api/portfolios.
func (s *Server) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		portfolios, err := s.app.PortfolioService.ListPortfolios(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, portfolios)
	case http.MethodPost:
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		p, err := s.app.PortfolioService.CreatePortfolio(r.Context(), req.Name, req.Description)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, p)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handlePortfolioGet handles GET /api/portfolios/{id}.
func (s *Server) handlePortfolioGet(w http.ResponseWriter, r *http.Request, id string) {
	detail, err := s.app.PortfolioService.GetPortfolio(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, detail)
}

// handlePortfolioValue handles GET /api/portfolios/{id}/value.
func (s *Server) handlePortfolioValue(w http.ResponseWriter, r *http.Request, id string) {
	value, err := s.app.PortfolioService.PortfolioValue(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"portfolio_id": id, "total_value": value})
}

// handlePortfolioDelete handles DELETE /api/portfolios/{id}.
func (s *Server) handlePortfolioDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.app.PortfolioService.DeletePortfolio(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}
