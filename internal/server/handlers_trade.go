package server

import (
	"net/http"

	"github.com/shopspring/decimal"
)

// tradeRequest is the body for buy and sell orders. Price is optional; when
// omitted the order fills at the catalog's current price.
type tradeRequest struct {
	PortfolioID string          `json:"portfolio_id"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// resolvePrice fills an omitted order price from the catalog.
func (s *Server) resolvePrice(w http.ResponseWriter, r *http.Request, symbol string, price decimal.Decimal) (decimal.Decimal, bool) {
	if !price.IsZero() {
		return price, true
	}
	current, err := s.app.MarketService.CurrentPrice(r.Context(), symbol)
	if err != nil {
		WriteServiceError(w, err)
		return decimal.Zero, false
	}
	return current, true
}

// handleBuy handles POST /api/stocks/{symbol}/buy.
func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request, symbol string) {
	var req tradeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	price, ok := s.resolvePrice(w, r, symbol, req.Price)
	if !ok {
		return
	}

	result, err := s.app.TradeService.Buy(r.Context(), req.PortfolioID, symbol, req.Quantity, price)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, result)
}

// handleSell handles POST /api/stocks/{symbol}/sell.
func (s *Server) handleSell(w http.ResponseWriter, r *http.Request, symbol string) {
	var req tradeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	price, ok := s.resolvePrice(w, r, symbol, req.Price)
	if !ok {
		return
	}

	result, err := s.app.TradeService.Sell(r.Context(), req.PortfolioID, symbol, req.Quantity, price)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, result)
}
