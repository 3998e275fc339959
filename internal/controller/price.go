package controller

import (
	"net/http"
	"strings"

	"github.com/ramazansancar/stock-cost-calculator/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// ListPrices godoc
// @Summary Current prices
// @Description Latest known prices per asset class
// @Tags prices
// @Produce json
// @Success 200 {object} service.Quotes
// @Router /api/prices [get]
func (c *Controller) ListPrices(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.book.Quotes())
}

// RefreshPrices godoc
// @Summary Refresh prices
// @Description Fetch every feed the active log needs. Partial failures are listed; 502 when every feed failed.
// @Tags prices
// @Produce json
// @Success 200 {object} service.RefreshResult
// @Failure 502 {object} service.RefreshResult
// @Failure 503 {object} APIError
// @Router /api/prices/refresh [post]
func (c *Controller) RefreshPrices(ctx *gin.Context) {
	if c.refresher == nil {
		serviceUnavailable(ctx, "price refresh not available")
		return
	}

	res := c.refresher.Refresh(ctx.Request.Context())
	if len(res.Feeds) > 0 && len(res.Failures) == len(res.Feeds) {
		ctx.JSON(http.StatusBadGateway, res)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

// CryptoSymbols godoc
// @Summary Tradable crypto pairs
// @Description Spot USDT pairs currently trading, optionally filtered by q
// @Tags prices
// @Produce json
// @Param q query string false "Case-insensitive symbol filter"
// @Success 200 {array} prices.CryptoSymbol
// @Failure 503 {object} APIError
// @Router /api/prices/crypto/symbols [get]
func (c *Controller) CryptoSymbols(ctx *gin.Context) {
	if c.symbols == nil {
		serviceUnavailable(ctx, "crypto symbols not available")
		return
	}

	symbols, err := c.symbols.Symbols(ctx.Request.Context())
	if err != nil {
		c.logger.Warn("failed to list crypto symbols", "error", err)
		serviceUnavailable(ctx, "crypto symbols not available")
		return
	}

	q := strings.ToUpper(strings.TrimSpace(ctx.Query("q")))
	if q == "" {
		ctx.JSON(http.StatusOK, symbols)
		return
	}
	filtered := symbols[:0:0]
	for _, s := range symbols {
		if strings.Contains(s.Symbol, q) {
			filtered = append(filtered, s)
		}
	}
	ctx.JSON(http.StatusOK, filtered)
}

type RefreshSettingsRequest struct {
	Enabled  *bool `json:"enabled"`
	Interval *int  `json:"interval"`
}

// GetRefreshSettings godoc
// @Summary Auto refresh settings
// @Tags settings
// @Produce json
// @Success 200 {object} service.RefreshSettings
// @Failure 503 {object} APIError
// @Router /api/settings/refresh [get]
func (c *Controller) GetRefreshSettings(ctx *gin.Context) {
	if c.autoRefresh == nil {
		serviceUnavailable(ctx, "auto refresh not available")
		return
	}
	ctx.JSON(http.StatusOK, c.autoRefresh.Settings())
}

// UpdateRefreshSettings godoc
// @Summary Update auto refresh settings
// @Description Interval is in seconds and must be one of 15, 30, 60 or 300
// @Tags settings
// @Accept json
// @Produce json
// @Param body body RefreshSettingsRequest true "Fields to change"
// @Success 200 {object} service.RefreshSettings
// @Failure 400 {object} APIError
// @Failure 503 {object} APIError
// @Router /api/settings/refresh [put]
func (c *Controller) UpdateRefreshSettings(ctx *gin.Context) {
	if c.autoRefresh == nil {
		serviceUnavailable(ctx, "auto refresh not available")
		return
	}

	var req RefreshSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}

	if req.Interval != nil {
		if err := c.autoRefresh.SetInterval(*req.Interval); err != nil {
			if errors.Is(err, service.ErrUnsupportedInterval) {
				badRequestWithDetails(ctx, "invalid interval", err.Error())
				return
			}
			c.logger.Error("failed to update refresh interval", "error", err)
			internalError(ctx, "failed to update refresh interval")
			return
		}
	}
	if req.Enabled != nil {
		if err := c.autoRefresh.SetEnabled(*req.Enabled); err != nil {
			c.logger.Error("failed to update auto refresh", "error", err)
			internalError(ctx, "failed to update auto refresh")
			return
		}
	}
	ctx.JSON(http.StatusOK, c.autoRefresh.Settings())
}

var _ AutoRefresh = (*service.AutoRefresh)(nil)
