package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/internal/ledger"
	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/internal/profile"
	"github.com/ramazansancar/stock-cost-calculator/internal/repo"
	"github.com/ramazansancar/stock-cost-calculator/internal/service"
	"github.com/ramazansancar/stock-cost-calculator/internal/snapshot"
	"github.com/ramazansancar/stock-cost-calculator/pkg/id"
	"github.com/ramazansancar/stock-cost-calculator/pkg/identity"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/prices"
	repotypes "github.com/ramazansancar/stock-cost-calculator/pkg/types/repo"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	ownerID = "aaaaaaaa-1111-4222-8333-444444444444"
	otherID = "bbbbbbbb-1111-4222-8333-444444444444"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubRefresher struct {
	result service.RefreshResult
	calls  int
}

func (s *stubRefresher) Refresh(context.Context) service.RefreshResult {
	s.calls++
	return s.result
}

type stubSymbols []prices.CryptoSymbol

func (s stubSymbols) Symbols(context.Context) ([]prices.CryptoSymbol, error) {
	return s, nil
}

type ControllerTestSuite struct {
	suite.Suite
	db        *gorm.DB
	repo      *repo.Repository
	store     *profile.Store
	ledger    *ledger.Ledger
	book      *service.PriceBook
	refresher *stubRefresher
	auto      *service.AutoRefresh
	router    *gin.Engine
}

func (s *ControllerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.db = db

	r, err := repo.New(db)
	s.Require().NoError(err)
	s.Require().NoError(r.Migrate())
	s.repo = r

	ident, err := identity.New(
		identity.WithStore(r),
		identity.WithLogger(discardLogger),
		identity.WithUUIDSource(func() (uuid.UUID, error) { return uuid.Parse(ownerID) }),
	)
	s.Require().NoError(err)

	store, err := profile.New(
		profile.WithStore(r),
		profile.WithIdentity(ident),
		profile.WithLogger(discardLogger),
	)
	s.Require().NoError(err)
	s.Require().NoError(store.Initialize())
	s.store = store

	l, err := ledger.New(
		ledger.WithProfiles(store),
		ledger.WithIDGenerator(id.NewGenerator(time.Now)),
		ledger.WithLogger(discardLogger),
		ledger.WithImportRecorder(r),
	)
	s.Require().NoError(err)
	s.ledger = l

	s.book = service.NewPriceBook(34)
	s.refresher = &stubRefresher{result: service.RefreshResult{Feeds: []string{prices.SourceForeks}}}

	auto, err := service.NewAutoRefresh(
		service.WithAutoRefreshLogger(discardLogger),
		service.WithAutoRefreshStore(r),
		service.WithAutoRefreshSource(l),
		service.WithRefresher(s.refresher),
	)
	s.Require().NoError(err)
	s.auto = auto
	l.OnChange(func([]models.Transaction) { _ = auto.Sync() })

	ctrl, err := New(
		WithLedger(l),
		WithProfiles(store),
		WithImportLogs(r),
		WithPriceBook(s.book),
		WithRefresher(s.refresher),
		WithSymbolLister(stubSymbols{
			{Symbol: "BTCUSDT", BaseAsset: "BTC", QuoteAsset: "USDT", Status: "TRADING", Price: "60000"},
			{Symbol: "ETHUSDT", BaseAsset: "ETH", QuoteAsset: "USDT", Status: "TRADING", Price: "3000"},
		}),
		WithAutoRefresh(auto),
		WithLogger(discardLogger),
		WithClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }),
	)
	s.Require().NoError(err)

	s.router = gin.New()
	api := s.router.Group("/api")
	api.GET("/health", ctrl.Health)

	txs := api.Group("/transactions")
	txs.GET("", ctrl.ListTransactions)
	txs.POST("", ctrl.CreateTransaction)
	txs.POST("/clear", ctrl.ClearTransactions)
	txs.DELETE("/:id", ctrl.DeleteTransaction)

	portfolio := api.Group("/portfolio")
	portfolio.GET("/summary", ctrl.PortfolioSummary)
	portfolio.GET("/stats", ctrl.PortfolioStats)
	portfolio.GET("/report", ctrl.PortfolioReport)

	profiles := api.Group("/profiles")
	profiles.GET("", ctrl.ListProfiles)
	profiles.POST("", ctrl.CreateProfile)
	profiles.PUT("/active", ctrl.SwitchProfile)
	profiles.DELETE("/:id", ctrl.DeleteProfile)

	api.GET("/export", ctrl.ExportSnapshot)
	api.GET("/export/share", ctrl.ShareSnapshot)
	api.POST("/import", ctrl.ImportSnapshot)
	api.GET("/import/pending", ctrl.PendingImport)
	api.POST("/import/pending/:id/confirm", ctrl.ConfirmImport)
	api.DELETE("/import/pending/:id", ctrl.RejectImport)
	api.GET("/imports", ctrl.ListImportLogs)
	api.GET("/imports/:id", ctrl.GetImportLog)
	api.POST("/shared", ctrl.AcceptShared)

	api.GET("/prices", ctrl.ListPrices)
	api.POST("/prices/refresh", ctrl.RefreshPrices)
	api.GET("/prices/crypto/symbols", ctrl.CryptoSymbols)
	api.GET("/settings/refresh", ctrl.GetRefreshSettings)
	api.PUT("/settings/refresh", ctrl.UpdateRefreshSettings)
}

func (s *ControllerTestSuite) TearDownTest() {
	s.auto.Stop()
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
}

func (s *ControllerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ControllerTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (s *ControllerTestSuite) addStock(kind models.TradeType, qty, price float64) models.Transaction {
	w := s.do(http.MethodPost, "/api/transactions", ledger.Draft{
		Symbol:     "THYAO",
		SymbolName: "TURK HAVA YOLLARI",
		AssetType:  models.AssetStock,
		Quantity:   qty,
		Price:      price,
		Type:       kind,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var tx models.Transaction
	s.decode(w, &tx)
	return tx
}

func (s *ControllerTestSuite) snapshotBody(owner string, n int) string {
	txs := make([]models.Transaction, n)
	for i := range txs {
		txs[i] = models.Transaction{
			ID: "imp-" + string(rune('a'+i)), Symbol: "USD", SymbolName: "Dolar",
			AssetType: models.AssetCurrency, Quantity: 1, Price: 32, Date: "2024-01-01", Type: models.TradeBuy,
		}
	}
	data, err := snapshot.Marshal(snapshot.New(owner, txs, time.Now()))
	s.Require().NoError(err)
	return string(data)
}

func (s *ControllerTestSuite) TestTransactions_CreateListDelete() {
	w := s.do(http.MethodGet, "/api/transactions", nil)
	s.Equal(http.StatusOK, w.Code)
	var empty TransactionListResponse
	s.decode(w, &empty)
	s.Empty(empty.Transactions)
	s.Zero(empty.Total)

	first := s.addStock(models.TradeBuy, 100, 10)
	s.NotEmpty(first.ID)
	s.Equal(time.Now().Format(models.DateLayout), first.Date)
	second := s.addStock(models.TradeBuy, 50, 12)

	w = s.do(http.MethodGet, "/api/transactions?limit=1", nil)
	var page TransactionListResponse
	s.decode(w, &page)
	s.Equal(2, page.Total)
	s.Require().Len(page.Transactions, 1)
	s.Equal(second.ID, page.Transactions[0].ID)

	w = s.do(http.MethodDelete, "/api/transactions/"+first.ID, nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, "/api/transactions/"+first.ID, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Len(s.ledger.Transactions(), 1)
}

func (s *ControllerTestSuite) TestTransactions_InvalidDraft() {
	w := s.do(http.MethodPost, "/api/transactions", "{not json")
	s.Equal(http.StatusBadRequest, w.Code)

	s.addStock(models.TradeBuy, 10, 5)
	w = s.do(http.MethodPost, "/api/transactions", ledger.Draft{
		Symbol: "THYAO", SymbolName: "THY", AssetType: models.AssetStock,
		Quantity: 11, Price: 5, Type: models.TradeSell,
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	var apiErr APIError
	s.decode(w, &apiErr)
	s.Equal("invalid transaction", apiErr.Error)
	s.Contains(apiErr.Details, "exceeds held quantity")
}

func (s *ControllerTestSuite) TestTransactions_Clear() {
	s.addStock(models.TradeBuy, 1, 1)

	w := s.do(http.MethodPost, "/api/transactions/clear", ClearRequest{Confirmation: "nope"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Len(s.ledger.Transactions(), 1)

	w = s.do(http.MethodPost, "/api/transactions/clear", ClearRequest{Confirmation: " DELETE "})
	s.Equal(http.StatusNoContent, w.Code)
	s.Empty(s.ledger.Transactions())
}

func (s *ControllerTestSuite) TestPortfolio_SummaryStatsReport() {
	s.addStock(models.TradeBuy, 100, 10)
	s.addStock(models.TradeBuy, 100, 20)
	s.addStock(models.TradeSell, 50, 30)
	s.book.SetStocks(map[string]prices.StockQuote{"THYAO": {Symbol: "THYAO", Last: 25}}, time.Now())

	w := s.do(http.MethodGet, "/api/portfolio/summary", nil)
	s.Equal(http.StatusOK, w.Code)
	var summary PortfolioSummaryResponse
	s.decode(w, &summary)
	s.Equal(ownerID, summary.ProfileID)
	s.Require().Len(summary.Holdings, 1)
	h := summary.Holdings[0]
	s.InDelta(150, h.TotalQuantity, 1e-9)
	s.InDelta(15, h.AverageCost, 1e-9)
	s.InDelta(2250, h.TotalCost, 1e-9)
	s.InDelta(3750, h.MarketValue, 1e-9)
	s.InDelta(1500, summary.Totals.ProfitLoss, 1e-9)
	s.Equal(3, summary.Totals.TransactionCount)

	w = s.do(http.MethodGet, "/api/portfolio/stats", nil)
	var stats models.Stats
	s.decode(w, &stats)
	s.Equal(models.Stats{BuyCount: 2, SellCount: 1, UniqueAssets: 1, TradedVolume: 4500}, stats)

	w = s.do(http.MethodGet, "/api/portfolio/report", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "PORTFOLIO SUMMARY")
	s.Contains(w.Body.String(), "[stock] THYAO")

	w = s.do(http.MethodGet, "/api/portfolio/report?format=json", nil)
	var rep ReportResponse
	s.decode(w, &rep)
	s.True(rep.HasHoldings)
}

func (s *ControllerTestSuite) TestProfiles_Lifecycle() {
	w := s.do(http.MethodGet, "/api/profiles", nil)
	var list ProfileListResponse
	s.decode(w, &list)
	s.Equal(ownerID, list.ActiveID)
	s.Equal(ownerID, list.OwnerID)
	s.Require().Len(list.Profiles, 1)
	s.True(list.Profiles[0].IsOwner)

	w = s.do(http.MethodPost, "/api/profiles", CreateProfileRequest{ID: " "})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/profiles", CreateProfileRequest{
		ID:           otherID,
		Label:        "Friend",
		Transactions: []json.RawMessage{json.RawMessage(`{"id":"x","symbol":"USD","symbolName":"Dolar","assetType":"currency","quantity":1,"price":1,"date":"2024-01-01","type":"buy"}`)},
	})
	s.Equal(http.StatusCreated, w.Code)
	s.Equal(ownerID, s.store.ActiveID())

	w = s.do(http.MethodPut, "/api/profiles/active", SwitchProfileRequest{ID: otherID})
	s.Equal(http.StatusOK, w.Code)
	var switched SwitchProfileResponse
	s.decode(w, &switched)
	s.Equal(otherID, switched.ActiveID)
	s.Len(switched.Transactions, 1)

	w = s.do(http.MethodDelete, "/api/profiles/"+ownerID, nil)
	s.Equal(http.StatusNoContent, w.Code)
	_, ok := s.store.Profile(ownerID)
	s.True(ok)

	w = s.do(http.MethodDelete, "/api/profiles/"+otherID, nil)
	s.Equal(http.StatusNoContent, w.Code)
	s.Equal(ownerID, s.store.ActiveID())
}

func (s *ControllerTestSuite) TestProfiles_CreateValidatesAndKeepsOwner() {
	tx := s.addStock(models.TradeBuy, 1, 1)

	w := s.do(http.MethodPost, "/api/profiles", `{"id":"`+otherID+`","transactions":[{"id":"","symbol":"","assetType":"nope","type":"hold","quantity":-5,"price":-1}]}`)
	s.Equal(http.StatusBadRequest, w.Code)
	var verr ImportErrorResponse
	s.decode(w, &verr)
	s.NotEmpty(verr.Rows)
	_, ok := s.store.Profile(otherID)
	s.False(ok)

	w = s.do(http.MethodPost, "/api/profiles", `{"id":"`+ownerID+`","transactions":[]}`)
	s.Equal(http.StatusConflict, w.Code)
	owner, ok := s.store.Profile(ownerID)
	s.Require().True(ok)
	s.Require().Len(owner.Transactions, 1)
	s.Equal(tx.ID, owner.Transactions[0].ID)
	s.Len(s.ledger.Transactions(), 1)
}

func (s *ControllerTestSuite) TestTransactions_UnknownActiveProfile() {
	w := s.do(http.MethodPut, "/api/profiles/active", SwitchProfileRequest{ID: "ghost"})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/transactions", ledger.Draft{
		Symbol: "THYAO", SymbolName: "THY", AssetType: models.AssetStock,
		Quantity: 1, Price: 5, Type: models.TradeBuy,
	})
	s.Equal(http.StatusNotFound, w.Code)
	s.Empty(s.ledger.Transactions())

	w = s.do(http.MethodPost, "/api/transactions/clear", ClearRequest{Confirmation: "delete"})
	s.Equal(http.StatusNotFound, w.Code)
	_, ok := s.store.Profile("ghost")
	s.False(ok)
}

func (s *ControllerTestSuite) TestExport_AttachmentAndShare() {
	s.addStock(models.TradeBuy, 1, 1)

	w := s.do(http.MethodGet, "/api/export", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("attachment; filename=portfoy-aaaaaaaa-2024-06-01.json", w.Header().Get("Content-Disposition"))
	exported, err := snapshot.Decode(w.Body.String())
	s.Require().NoError(err)
	s.Equal(ownerID, exported.User)
	s.Len(exported.Transactions, 1)

	w = s.do(http.MethodGet, "/api/export/share", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/export/share?base="+url.QueryEscape("https://example.com/app"), nil)
	s.Equal(http.StatusOK, w.Code)
	var share ShareResponse
	s.decode(w, &share)
	s.True(strings.HasPrefix(share.URL, "https://example.com/app?data="))
}

func (s *ControllerTestSuite) TestImport_ReplaceStagesAndConfirms() {
	w := s.do(http.MethodPost, "/api/import", s.snapshotBody(otherID, 2))
	s.Equal(http.StatusOK, w.Code)
	var applied ImportResponse
	s.decode(w, &applied)
	s.True(applied.Applied)
	s.Equal(2, applied.Imported)

	w = s.do(http.MethodPost, "/api/import?mode=replace", s.snapshotBody(otherID, 3))
	s.Equal(http.StatusAccepted, w.Code)
	var staged ImportResponse
	s.decode(w, &staged)
	s.False(staged.Applied)
	s.Require().NotNil(staged.Pending)
	s.Equal(2, staged.Pending.Existing)
	s.Equal(3, staged.Pending.Incoming)
	s.Contains(staged.Prompt, "yes/no")
	s.Len(s.ledger.Transactions(), 2)

	w = s.do(http.MethodGet, "/api/import/pending", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/import/pending/"+staged.Pending.ID+"/confirm", nil)
	s.Equal(http.StatusNoContent, w.Code)
	s.Len(s.ledger.Transactions(), 3)

	w = s.do(http.MethodPost, "/api/import/pending/"+staged.Pending.ID+"/confirm", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ControllerTestSuite) TestImport_Reject() {
	s.addStock(models.TradeBuy, 1, 1)
	w := s.do(http.MethodPost, "/api/import", s.snapshotBody(otherID, 3))
	s.Require().Equal(http.StatusAccepted, w.Code)
	var staged ImportResponse
	s.decode(w, &staged)

	w = s.do(http.MethodDelete, "/api/import/pending/"+staged.Pending.ID, nil)
	s.Equal(http.StatusNoContent, w.Code)
	s.Len(s.ledger.Transactions(), 1)

	w = s.do(http.MethodGet, "/api/import/pending", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ControllerTestSuite) TestImport_AppendViewAndErrors() {
	s.addStock(models.TradeBuy, 1, 1)

	w := s.do(http.MethodPost, "/api/import?mode=append", s.snapshotBody(otherID, 2))
	s.Equal(http.StatusOK, w.Code)
	s.Len(s.ledger.Transactions(), 3)

	w = s.do(http.MethodPost, "/api/import?mode=view", s.snapshotBody(ownerID, 1))
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/import?mode=view", s.snapshotBody(otherID, 1))
	s.Equal(http.StatusOK, w.Code)
	s.Equal(otherID, s.store.ActiveID())

	w = s.do(http.MethodPost, "/api/import?mode=bogus", s.snapshotBody(otherID, 1))
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/import", `{"user":"u","transactions":[{"id":"x"}]}`)
	s.Equal(http.StatusBadRequest, w.Code)
	var verr ImportErrorResponse
	s.decode(w, &verr)
	s.Equal("invalid snapshot", verr.Error)
	s.NotEmpty(verr.Rows)

	w = s.do(http.MethodPost, "/api/import", "  ")
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/imports", nil)
	s.Equal(http.StatusOK, w.Code)
	var logs []models.ImportLog
	s.decode(w, &logs)
	s.Require().NotEmpty(logs)
	s.Equal(models.ImportStatusFailed, logs[0].Status)

	w = s.do(http.MethodGet, "/api/imports/"+strconv.FormatInt(logs[0].ID, 10), nil)
	s.Equal(http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/imports/999", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/imports?mode=view&status=applied", nil)
	s.Equal(http.StatusOK, w.Code)
	s.decode(w, &logs)
	s.Require().Len(logs, 1)
	s.Equal(otherID, logs[0].Owner)

	w = s.do(http.MethodGet, "/api/imports?limit=2", nil)
	s.decode(w, &logs)
	s.Len(logs, 2)

	w = s.do(http.MethodGet, "/api/imports?limit=x", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ControllerTestSuite) TestImport_MultipartFile() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "portfoy.json")
	s.Require().NoError(err)
	_, err = fw.Write([]byte(s.snapshotBody(otherID, 2)))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import?mode=append", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code, w.Body.String())
	s.Len(s.ledger.Transactions(), 2)

	logs, err := s.repo.ListImportLogs(repotypes.ImportLogFilter{})
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal(ledger.SourceFile, logs[0].Source)
}

func (s *ControllerTestSuite) TestShared_AddsProfileWithoutSwitching() {
	shared, err := snapshot.ShareURL("https://example.com/?tab=1", snapshot.New(otherID, nil, time.Now()))
	s.Require().NoError(err)

	w := s.do(http.MethodPost, "/api/shared", SharedRequest{URL: shared})
	s.Equal(http.StatusOK, w.Code)
	var resp SharedResponse
	s.decode(w, &resp)
	s.True(resp.Added)
	s.Equal("https://example.com/?tab=1", resp.URL)
	s.Equal(ownerID, s.store.ActiveID())
	_, ok := s.store.Profile(otherID)
	s.True(ok)

	w = s.do(http.MethodPost, "/api/shared", SharedRequest{URL: "https://example.com/?tab=1"})
	s.Equal(http.StatusOK, w.Code)
	s.decode(w, &resp)
	s.False(resp.Added)

	w = s.do(http.MethodPost, "/api/shared", SharedRequest{URL: "https://example.com/?data=zzz"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ControllerTestSuite) TestShared_OwnLinkWhileViewingOther() {
	tx := s.addStock(models.TradeBuy, 1, 1)
	s.ledger.SwitchProfile(otherID)

	own, err := snapshot.ShareURL("https://example.com/", snapshot.New(ownerID, nil, time.Now()))
	s.Require().NoError(err)
	w := s.do(http.MethodPost, "/api/shared", SharedRequest{URL: own})
	s.Equal(http.StatusConflict, w.Code)

	owner, ok := s.store.Profile(ownerID)
	s.Require().True(ok)
	s.Require().Len(owner.Transactions, 1)
	s.Equal(tx.ID, owner.Transactions[0].ID)
}

func (s *ControllerTestSuite) TestPrices_RefreshAndSymbols() {
	w := s.do(http.MethodPost, "/api/prices/refresh", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(1, s.refresher.calls)

	s.refresher.result.Failures = map[string]string{prices.SourceForeks: "down"}
	w = s.do(http.MethodPost, "/api/prices/refresh", nil)
	s.Equal(http.StatusBadGateway, w.Code)

	w = s.do(http.MethodGet, "/api/prices", nil)
	s.Equal(http.StatusOK, w.Code)
	var q service.Quotes
	s.decode(w, &q)
	s.Equal(34.0, q.CryptoRate)

	w = s.do(http.MethodGet, "/api/prices/crypto/symbols?q=eth", nil)
	var symbols []prices.CryptoSymbol
	s.decode(w, &symbols)
	s.Require().Len(symbols, 1)
	s.Equal("ETHUSDT", symbols[0].Symbol)
}

func (s *ControllerTestSuite) TestSettings_Refresh() {
	w := s.do(http.MethodGet, "/api/settings/refresh", nil)
	var settings service.RefreshSettings
	s.decode(w, &settings)
	s.Equal(service.RefreshSettings{Interval: service.DefaultRefreshInterval}, settings)

	enabled, interval := true, 60
	w = s.do(http.MethodPut, "/api/settings/refresh", RefreshSettingsRequest{Enabled: &enabled, Interval: &interval})
	s.Equal(http.StatusOK, w.Code)
	s.decode(w, &settings)
	s.Equal(service.RefreshSettings{Enabled: true, Interval: 60}, settings)

	s.addStock(models.TradeBuy, 1, 1)
	s.True(s.auto.Settings().Running)

	bad := 45
	w = s.do(http.MethodPut, "/api/settings/refresh", RefreshSettingsRequest{Interval: &bad})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/transactions/clear", ClearRequest{Confirmation: "delete"})
	s.Equal(http.StatusNoContent, w.Code)
	s.False(s.auto.Settings().Running)
}

func (s *ControllerTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/api/health", nil)
	s.Equal(http.StatusOK, w.Code)

	var res HealthResponse
	s.decode(w, &res)
	s.Equal("ok", res.Status)
	s.Equal("2024-06-01T12:00:00Z", res.Timestamp)
	s.Equal(ownerID, res.ProfileID)
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}
