package server

import (
	"net/http"
	"strings"
	"time"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Dashboard and P&L
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/pnl/realized", s.handleRealizedPL)
	mux.HandleFunc("/api/pnl/unrealized", s.handleUnrealizedPL)

	// Portfolios
	mux.HandleFunc("/api/portfolios/", s.routePortfolios)
	mux.HandleFunc("/api/portfolios", s.handlePortfolios)

	// Stocks and trading
	mux.HandleFunc("/api/stocks/", s.routeStocks)
	mux.HandleFunc("/api/stocks", s.handleStocks)

	// Watchlist
	mux.HandleFunc("/api/watchlist/", s.routeWatchlist)
	mux.HandleFunc("/api/watchlist", s.handleWatchlist)

	// Ledger views
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/account/balance", s.handleAccountBalance)
	mux.HandleFunc("/api/net-worth/history", s.handleNetWorthHistory)
	mux.HandleFunc("/api/net-worth/chart.png", s.handleNetWorthChart)
}

// routePortfolios dispatches /api/portfolios/{id} to the appropriate handler.
func (s *Server) routePortfolios(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/portfolios/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	if action == "value" {
		if RequireMethod(w, r, http.MethodGet) {
			s.handlePortfolioValue(w, r, id)
		}
		return
	}
	if action != "" {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handlePortfolioGet(w, r, id)
	case http.MethodDelete:
		s.handlePortfolioDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// routeStocks dispatches /api/stocks/{symbol} and /api/stocks/{symbol}/{action}.
func (s *Server) routeStocks(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/stocks/")
	if rest == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required in path")
		return
	}
	if rest == "prices" {
		if RequireMethod(w, r, http.MethodGet) {
			s.handlePriceMap(w, r)
		}
		return
	}

	symbol, action, _ := strings.Cut(rest, "/")
	switch action {
	case "":
		if !RequireMethod(w, r, http.MethodGet) {
			return
		}
		s.handleStockGet(w, r, symbol)
	case "buy":
		if !RequireMethod(w, r, http.MethodPost) {
			return
		}
		s.handleBuy(w, r, symbol)
	case "sell":
		if !RequireMethod(w, r, http.MethodPost) {
			return
		}
		s.handleSell(w, r, symbol)
	case "price":
		if !RequireMethod(w, r, http.MethodPut) {
			return
		}
		s.handlePriceUpdate(w, r, symbol)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// routeWatchlist dispatches /api/watchlist/{symbol}.
func (s *Server) routeWatchlist(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimPrefix(r.URL.Path, "/api/watchlist/")
	if symbol == "" || strings.Contains(symbol, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodPost:
		s.handleWatchlistSet(w, r, symbol, true)
	case http.MethodDelete:
		s.handleWatchlistSet(w, r, symbol, false)
	default:
		RequireMethod(w, r, http.MethodPost, http.MethodDelete)
	}
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
