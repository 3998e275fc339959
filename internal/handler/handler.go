package handler

import (
	"errors"

	"github.com/ramazansancar/stock-cost-calculator/internal/controller"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	ErrNilEngine     = errors.New("engine is required")
	ErrNilController = errors.New("controller is required")
)

type Handler struct {
	engine  *gin.Engine
	ctrl    *controller.Controller
	hub     *controller.Hub
	swagger bool
}

func (h *Handler) IsValid() error {
	if h.engine == nil {
		return ErrNilEngine
	}
	if h.ctrl == nil {
		return ErrNilController
	}
	return nil
}

type Option func(*Handler)

func WithEngine(engine *gin.Engine) Option {
	return func(h *Handler) {
		h.engine = engine
	}
}

func WithController(c *controller.Controller) Option {
	return func(h *Handler) {
		h.ctrl = c
	}
}

// WithPriceHub enables the SSE price stream.
func WithPriceHub(hub *controller.Hub) Option {
	return func(h *Handler) {
		h.hub = hub
	}
}

func WithSwagger() Option {
	return func(h *Handler) {
		h.swagger = true
	}
}

func New(opts ...Option) (*Handler, error) {
	h := &Handler{}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.IsValid(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Handler) Setup() error {
	ctrl := h.ctrl

	if h.swagger {
		h.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := h.engine.Group("/api")
	api.GET("/health", ctrl.Health)

	transactions := api.Group("/transactions")
	transactions.GET("", ctrl.ListTransactions)
	transactions.POST("", ctrl.CreateTransaction)
	transactions.POST("/clear", ctrl.ClearTransactions)
	transactions.DELETE("/:id", ctrl.DeleteTransaction)

	portfolio := api.Group("/portfolio")
	portfolio.GET("/summary", ctrl.PortfolioSummary)
	portfolio.GET("/stats", ctrl.PortfolioStats)
	portfolio.GET("/report", ctrl.PortfolioReport)

	profiles := api.Group("/profiles")
	profiles.GET("", ctrl.ListProfiles)
	profiles.POST("", ctrl.CreateProfile)
	profiles.PUT("/active", ctrl.SwitchProfile)
	profiles.DELETE("/:id", ctrl.DeleteProfile)

	export := api.Group("/export")
	export.GET("", ctrl.ExportSnapshot)
	export.GET("/share", ctrl.ShareSnapshot)

	imp := api.Group("/import")
	imp.POST("", ctrl.ImportSnapshot)
	imp.GET("/pending", ctrl.PendingImport)
	imp.POST("/pending/:id/confirm", ctrl.ConfirmImport)
	imp.DELETE("/pending/:id", ctrl.RejectImport)

	imports := api.Group("/imports")
	imports.GET("", ctrl.ListImportLogs)
	imports.GET("/:id", ctrl.GetImportLog)

	api.POST("/shared", ctrl.AcceptShared)

	prices := api.Group("/prices")
	if h.hub != nil {
		prices.GET("/stream", controller.SSEPrices(h.hub))
	}
	prices.GET("", ctrl.ListPrices)
	prices.POST("/refresh", ctrl.RefreshPrices)
	prices.GET("/crypto/symbols", ctrl.CryptoSymbols)

	settings := api.Group("/settings")
	settings.GET("/refresh", ctrl.GetRefreshSettings)
	settings.PUT("/refresh", ctrl.UpdateRefreshSettings)

	return nil
}
