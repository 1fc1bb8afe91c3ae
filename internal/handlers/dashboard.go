package handlers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/atharvakonge/trading-competition/internal/market"
	"github.com/atharvakonge/trading-competition/internal/models"
	"github.com/atharvakonge/trading-competition/internal/trading"
	"github.com/atharvakonge/trading-competition/internal/valuation"
)

// dashboard serves GET and POST /dashboard. A POST carries one trade
// (action + quantity); both methods end by rendering the page from the
// full ledger — no cached position state exists anywhere.
func (s *Server) dashboard(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		flash(c, "Please log in to access the dashboard.")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	ctx := c.Request.Context()

	var message string
	if c.Request.Method == http.MethodPost {
		msg, err := s.Executor.Execute(ctx, user, c.PostForm("action"), c.PostForm("quantity"))
		switch {
		case errors.Is(err, trading.ErrInvalidQuantity):
			flash(c, err.Error())
			c.Redirect(http.StatusFound, "/dashboard")
			return
		case trading.IsUserError(err):
			flash(c, err.Error())
		case err != nil:
			s.internalError(c, "Execute", err)
			return
		default:
			message = msg
			// Balance changed; reload before rendering.
			user, err = s.Store.UserByID(ctx, user.ID)
			if err != nil {
				s.internalError(c, "UserByID", err)
				return
			}
		}
	}

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

	netQty := valuation.NetQuantity(trades)
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"User":           user,
		"Trades":         trades,
		"Message":        message,
		"PortfolioValue": valuation.NetLiquidationValue(user.CashBalance, netQty, price),
		"OpenPositions":  valuation.OpenPosition(market.DefaultTicker, trades, price),
		"CurrentPrice":   price,
		"Flashes":        takeFlashes(c),
	})
}

// leaderboard ranks every user by portfolio value, descending. Equal
// values order by username ascending so the ranking is deterministic.
func (s *Server) leaderboard(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := s.Store.Users(ctx)
	if err != nil {
		s.internalError(c, "Users", err)
		return
	}
	price, err := s.Market.Current(ctx, market.DefaultTicker)
	if err != nil {
		s.internalError(c, "Current", err)
		return
	}

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		trades, err := s.Store.TradesByUser(ctx, u.ID, market.DefaultTicker)
		if err != nil {
			s.internalError(c, "TradesByUser", err)
			return
		}
		entries = append(entries, models.LeaderboardEntry{
			Username:       u.Username,
			PortfolioValue: valuation.NetLiquidationValue(u.CashBalance, valuation.NetQuantity(trades), price),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].PortfolioValue != entries[j].PortfolioValue {
			return entries[i].PortfolioValue > entries[j].PortfolioValue
		}
		return entries[i].Username < entries[j].Username
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	c.HTML(http.StatusOK, "leaderboard.html", gin.H{
		"Leaderboard": entries,
		"Flashes":     takeFlashes(c),
	})
}
