package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/ramazansancar/stock-cost-calculator/internal/controller"
	"github.com/ramazansancar/stock-cost-calculator/internal/ledger"
	"github.com/ramazansancar/stock-cost-calculator/internal/profile"
	"github.com/ramazansancar/stock-cost-calculator/internal/service"
	"github.com/ramazansancar/stock-cost-calculator/pkg/id"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type memKV map[string]string

func (m memKV) Get(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (m memKV) Set(key, value string) error {
	m[key] = value
	return nil
}

func (m memKV) Delete(key string) error {
	delete(m, key)
	return nil
}

type owner string

func (o owner) UserID() string { return string(o) }

func (o owner) Label(id string) string { return id }

func newController(t *testing.T) *controller.Controller {
	t.Helper()
	store, err := profile.New(
		profile.WithStore(memKV{}),
		profile.WithIdentity(owner("me")),
		profile.WithLogger(discardLogger),
	)
	require.NoError(t, err)
	require.NoError(t, store.Initialize())

	l, err := ledger.New(
		ledger.WithProfiles(store),
		ledger.WithIDGenerator(id.NewGenerator(nil)),
		ledger.WithLogger(discardLogger),
	)
	require.NoError(t, err)

	ctrl, err := controller.New(
		controller.WithLedger(l),
		controller.WithProfiles(store),
		controller.WithPriceBook(service.NewPriceBook(0)),
		controller.WithLogger(discardLogger),
	)
	require.NoError(t, err)
	return ctrl
}

func TestNew_Validation(t *testing.T) {
	_, err := New(WithController(newController(t)))
	assert.ErrorIs(t, err, ErrNilEngine)

	_, err = New(WithEngine(gin.New()))
	assert.ErrorIs(t, err, ErrNilController)
}

func TestSetup_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h, err := New(
		WithEngine(engine),
		WithController(newController(t)),
		WithPriceHub(controller.NewHub(4)),
		WithSwagger(),
	)
	require.NoError(t, err)
	require.NoError(t, h.Setup())

	routes := map[string]bool{}
	for _, r := range engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		http.MethodGet + " /api/health",
		http.MethodGet + " /api/transactions",
		http.MethodPost + " /api/transactions/clear",
		http.MethodGet + " /api/portfolio/report",
		http.MethodPut + " /api/profiles/active",
		http.MethodGet + " /api/export/share",
		http.MethodPost + " /api/import/pending/:id/confirm",
		http.MethodGet + " /api/prices/stream",
		http.MethodPut + " /api/settings/refresh",
		http.MethodGet + " /swagger/*any",
	} {
		assert.True(t, routes[want], want)
	}
}

func TestSetup_WithoutHub(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h, err := New(WithEngine(engine), WithController(newController(t)))
	require.NoError(t, err)
	require.NoError(t, h.Setup())

	for _, r := range engine.Routes() {
		assert.NotEqual(t, "/api/prices/stream", r.Path)
		assert.NotEqual(t, "/swagger/*any", r.Path)
	}
}
