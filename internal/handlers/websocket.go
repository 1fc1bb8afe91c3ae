package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/atharvakonge/trading-competition/internal/market"
)

// PriceUpdate is one quote pushed over the websocket.
type PriceUpdate struct {
	Ticker    string    `json:"ticker"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // same-origin browser clients only in practice
	},
}

// priceSocket serves GET /ws/prices. Each client text message counts
// as one poll: the price takes one fluctuation step and the new quote
// is written back. The client drives the cadence, so there is no
// server-side ticker or background worker.
func (s *Server) priceSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		price, err := s.Market.Fluctuate(c.Request.Context(), market.DefaultTicker)
		if err != nil {
			s.Logger.Error("fluctuate", zap.Error(err))
			return
		}
		update := PriceUpdate{
			Ticker:    market.DefaultTicker,
			Price:     price,
			Timestamp: time.Now(),
		}
		if err := conn.WriteJSON(update); err != nil {
			return
		}
	}
}
