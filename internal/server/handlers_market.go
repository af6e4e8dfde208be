package server

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mbeckett/paperfolio/internal/models"
)

// handleStocks handles GET /api/stocks and POST /api/stocks.
func (s *Server) handleStocks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		stocks, err := s.app.MarketService.ListStocks(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, stocks)
	case http.MethodPost:
		var req struct {
			Symbol    string          `json:"symbol"`
			Name      string          `json:"name"`
			Price     decimal.Decimal `json:"price"`
			Watchlist bool            `json:"watchlist"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		stock := &models.Stock{
			Symbol:       req.Symbol,
			Name:         req.Name,
			CurrentPrice: req.Price,
			Watchlist:    req.Watchlist,
		}
		if err := s.app.MarketService.RegisterStock(r.Context(), stock); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, stock)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleStockGet handles GET /api/stocks/{symbol}: the stock plus its
// cross-portfolio positions and recent transactions.
func (s *Server) handleStockGet(w http.ResponseWriter, r *http.Request, symbol string) {
	detail, err := s.app.MarketService.StockDetail(r.Context(), symbol)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, detail)
}

// handlePriceUpdate handles PUT /api/stocks/{symbol}/price.
func (s *Server) handlePriceUpdate(w http.ResponseWriter, r *http.Request, symbol string) {
	var req struct {
		Price decimal.Decimal `json:"price"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := s.app.MarketService.UpdatePrice(r.Context(), symbol, req.Price); err != nil {
		WriteServiceError(w, err)
		return
	}
	stock, err := s.app.MarketService.GetStock(r.Context(), symbol)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stock)
}

// handlePriceMap handles GET /api/stocks/prices.
func (s *Server) handlePriceMap(w http.ResponseWriter, r *http.Request) {
	prices, err := s.app.MarketService.PriceMap(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, prices)
}

// handleWatchlist handles GET /api/watchlist.
func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	entries, err := s.app.MarketService.Watchlist(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}

// handleWatchlistSet handles POST and DELETE /api/watchlist/{symbol}.
func (s *Server) handleWatchlistSet(w http.ResponseWriter, r *http.Request, symbol string, watchlist bool) {
	if err := s.app.MarketService.SetWatchlist(r.Context(), symbol, watchlist); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":    models.NormalizeSymbol(symbol),
		"watchlist": watchlist,
	})
}
