package server

import (
	"net/http"
	"time"

	"github.com/mbeckett/paperfolio/internal/common"
	"github.com/mbeckett/paperfolio/internal/models"
)

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": common.GetVersion(),
		"uptime":  time.Since(s.app.StartupTime).String(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleDashboard handles GET /api/dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	dashboard, err := s.app.PnLService.Dashboard(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, dashboard)
}

// handleRealizedPL handles GET /api/pnl/realized.
func (s *Server) handleRealizedPL(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	pl, err := s.app.PnLService.RealizedPL(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, pl)
}

// handleUnrealizedPL handles GET /api/pnl/unrealized?portfolio_id=...
func (s *Server) handleUnrealizedPL(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	pl, err := s.app.PnLService.UnrealizedPL(r.Context(), r.URL.Query().Get("portfolio_id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, pl)
}

// handleAccountBalance handles GET /api/account/balance.
func (s *Server) handleAccountBalance(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	balance, err := s.app.Storage.BalanceStore().GetBalance(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, balance)
}

// handleTransactions handles GET /api/transactions with optional
// portfolio_id, symbol, and limit query parameters.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit := QueryInt(r, "limit", 50)
	var (
		txs []*models.Transaction
		err error
	)
	switch {
	case r.URL.Query().Get("portfolio_id") != "":
		txs, err = s.app.Storage.TransactionStore().ListByPortfolio(r.Context(), r.URL.Query().Get("portfolio_id"), limit)
	case r.URL.Query().Get("symbol") != "":
		txs, err = s.app.Storage.TransactionStore().ListBySymbol(r.Context(), models.NormalizeSymbol(r.URL.Query().Get("symbol")), limit)
	default:
		txs, err = s.app.Storage.TransactionStore().ListRecent(r.Context(), limit)
	}
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, txs)
}
