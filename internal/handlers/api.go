package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atharvakonge/trading-competition/internal/market"
	"github.com/atharvakonge/trading-competition/internal/models"
	"github.com/atharvakonge/trading-competition/internal/valuation"
)

// tickerPrices is polled by the dashboard. Every poll advances the
// price one random step and returns the new quote; the client drives
// the fluctuation cadence, not a server timer.
func (s *Server) tickerPrices(c *gin.Context) {
	price, err := s.Market.Fluctuate(c.Request.Context(), market.DefaultTicker)
	if err != nil {
		s.internalError(c, "Fluctuate", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"prices": []models.TickerQuote{{Ticker: market.DefaultTicker, Price: price}},
	})
}

// openPositions returns the session user's open position as JSON, or
// an empty list when nobody is logged in.
func (s *Server) openPositions(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"positions": []models.Position{}})
		return
	}
	ctx := c.Request.Context()

	trades, err := s.Store.TradesByUser(ctx, user.ID, market.DefaultTicker)
	if err != nil {
		s.internalError(c, "TradesByUser", err)
		return
	}
	price, err := s.Market.Current(ctx, market.DefaultTicker)
	if err != nil {
		s.internalError(c, "Current", err)
		return
	}

	positions := valuation.OpenPosition(market.DefaultTicker, trades, price)
	if positions == nil {
		positions = []models.Position{}
	}
	c.JSON(http.StatusOK, gin.H{"positions": positions})
}
