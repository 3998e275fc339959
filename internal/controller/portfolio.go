package controller

import (
	"net/http"

	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/internal/report"
	"github.com/ramazansancar/stock-cost-calculator/internal/valuation"

	"github.com/gin-gonic/gin"
)

type PortfolioSummaryResponse struct {
	ProfileID string                   `json:"profileId"`
	Positions []models.PositionSummary `json:"positions"`
	Holdings  []models.PositionSummary `json:"holdings"`
	Totals    models.Totals            `json:"totals"`
}

type ReportResponse struct {
	Text        string `json:"text"`
	HasHoldings bool   `json:"hasHoldings"`
}

// PortfolioSummary godoc
// @Summary Portfolio summary
// @Description Per-position weighted average cost and P/L with totals over held positions
// @Tags portfolio
// @Produce json
// @Success 200 {object} PortfolioSummaryResponse
// @Router /api/portfolio/summary [get]
func (c *Controller) PortfolioSummary(ctx *gin.Context) {
	p := valuation.Value(c.ledger.Transactions(), c.book)
	ctx.JSON(http.StatusOK, PortfolioSummaryResponse{
		ProfileID: c.profiles.ActiveID(),
		Positions: p.Positions,
		Holdings:  p.Holdings,
		Totals:    p.Totals,
	})
}

// PortfolioStats godoc
// @Summary Transaction statistics
// @Tags portfolio
// @Produce json
// @Success 200 {object} models.Stats
// @Router /api/portfolio/stats [get]
func (c *Controller) PortfolioStats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, valuation.ComputeStats(c.ledger.Transactions()))
}

// PortfolioReport godoc
// @Summary Plain text portfolio report
// @Description Copyable summary of held positions; format=json wraps it
// @Tags portfolio
// @Produce plain
// @Produce json
// @Param format query string false "text (default) or json"
// @Success 200 {string} string
// @Router /api/portfolio/report [get]
func (c *Controller) PortfolioReport(ctx *gin.Context) {
	p := valuation.Value(c.ledger.Transactions(), c.book)
	text := report.String(p, c.formatter)

	if ctx.Query("format") == "json" {
		ctx.JSON(http.StatusOK, ReportResponse{Text: text, HasHoldings: len(p.Holdings) > 0})
		return
	}
	ctx.String(http.StatusOK, text)
}
