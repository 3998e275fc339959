package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/pkg/integrations/scheduler"
	schedtypes "github.com/ramazansancar/stock-cost-calculator/pkg/types/scheduler"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/storage"

	"github.com/pkg/errors"
)

var (
	ErrInvalidAutoRefreshConfig = errors.New("invalid auto refresh config")
	ErrUnsupportedInterval      = errors.New("unsupported refresh interval")
)

// RefreshIntervals are the accepted refresh-interval values in seconds.
var RefreshIntervals = []int{15, 30, 60, 300}

const DefaultRefreshInterval = 30

type Refresher interface {
	Refresh(ctx context.Context) RefreshResult
}

// RefreshSettings is the persisted timer configuration.
type RefreshSettings struct {
	Enabled  bool `json:"enabled"`
	Interval int  `json:"interval"`
	Running  bool `json:"running"`
}

// AutoRefresh owns the refresh timer. The timer runs only while the setting
// is enabled and the source has at least one transaction.
type AutoRefresh struct {
	ctx       context.Context
	logger    *slog.Logger
	kv        storage.KV
	source    TransactionSource
	refresher Refresher
	schedule  schedtypes.Factory

	mu       sync.Mutex
	enabled  bool
	interval int
	sched    schedtypes.Scheduler
}

type AutoRefreshOption func(*AutoRefresh)

func WithAutoRefreshContext(ctx context.Context) AutoRefreshOption {
	return func(a *AutoRefresh) {
		a.ctx = ctx
	}
}

func WithAutoRefreshLogger(l *slog.Logger) AutoRefreshOption {
	return func(a *AutoRefresh) {
		a.logger = l
	}
}

func WithAutoRefreshStore(kv storage.KV) AutoRefreshOption {
	return func(a *AutoRefresh) {
		a.kv = kv
	}
}

func WithAutoRefreshSource(src TransactionSource) AutoRefreshOption {
	return func(a *AutoRefresh) {
		a.source = src
	}
}

func WithRefresher(r Refresher) AutoRefreshOption {
	return func(a *AutoRefresh) {
		a.refresher = r
	}
}

// WithSchedulerFactory replaces the ticker-backed scheduler.
func WithSchedulerFactory(f schedtypes.Factory) AutoRefreshOption {
	return func(a *AutoRefresh) {
		a.schedule = f
	}
}

func (a *AutoRefresh) IsValid() error {
	switch {
	case a.ctx == nil:
		return errors.Wrap(ErrInvalidAutoRefreshConfig, "ctx cannot be nil")
	case a.logger == nil:
		return errors.Wrap(ErrInvalidAutoRefreshConfig, "logger cannot be nil")
	case a.kv == nil:
		return errors.Wrap(ErrInvalidAutoRefreshConfig, "store cannot be nil")
	case a.source == nil:
		return errors.Wrap(ErrInvalidAutoRefreshConfig, "source cannot be nil")
	case a.refresher == nil:
		return errors.Wrap(ErrInvalidAutoRefreshConfig, "refresher cannot be nil")
	default:
		return nil
	}
}

// NewAutoRefresh loads the persisted settings and starts the timer if they
// call for it.
func NewAutoRefresh(opts ...AutoRefreshOption) (*AutoRefresh, error) {
	a := &AutoRefresh{
		ctx:      context.Background(),
		interval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.IsValid(); err != nil {
		return nil, err
	}
	if a.schedule == nil {
		a.schedule = a.tickerScheduler
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = a.loadEnabled()
	a.interval = a.loadInterval()
	if err := a.sync(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *AutoRefresh) loadEnabled() bool {
	raw, err := a.kv.Get(storage.KeyAutoRefresh)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			a.logger.Warn("failed to read auto refresh setting", "error", err)
		}
		return false
	}
	var enabled bool
	if err := json.Unmarshal([]byte(raw), &enabled); err != nil {
		a.logger.Warn("ignoring corrupt auto refresh setting", "value", raw)
		return false
	}
	return enabled
}

// loadInterval accepts both "30" and 30; the value is stored as a JSON string.
func (a *AutoRefresh) loadInterval() int {
	raw, err := a.kv.Get(storage.KeyRefreshInterval)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			a.logger.Warn("failed to read refresh interval", "error", err)
		}
		return DefaultRefreshInterval
	}

	var seconds int
	var text string
	if err := json.Unmarshal([]byte(raw), &text); err == nil {
		seconds, err = strconv.Atoi(text)
		if err != nil {
			seconds = 0
		}
	} else if err := json.Unmarshal([]byte(raw), &seconds); err != nil {
		seconds = 0
	}
	if !slices.Contains(RefreshIntervals, seconds) {
		a.logger.Warn("ignoring unsupported refresh interval", "value", raw)
		return DefaultRefreshInterval
	}
	return seconds
}

func (a *AutoRefresh) Settings() RefreshSettings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return RefreshSettings{
		Enabled:  a.enabled,
		Interval: a.interval,
		Running:  a.sched != nil,
	}
}

func (a *AutoRefresh) SetEnabled(enabled bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.kv.Set(storage.KeyAutoRefresh, strconv.FormatBool(enabled)); err != nil {
		return errors.Wrap(err, "failed to persist auto refresh setting")
	}
	a.enabled = enabled
	return a.sync()
}

func (a *AutoRefresh) SetInterval(seconds int) error {
	if !slices.Contains(RefreshIntervals, seconds) {
		return errors.Wrapf(ErrUnsupportedInterval, "%d seconds", seconds)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.kv.Set(storage.KeyRefreshInterval, strconv.Quote(strconv.Itoa(seconds))); err != nil {
		return errors.Wrap(err, "failed to persist refresh interval")
	}
	changed := a.interval != seconds
	a.interval = seconds
	if changed && a.sched != nil {
		a.stop()
	}
	return a.sync()
}

// Sync re-evaluates whether the timer should run. Call it after the log of
// the active profile changed.
func (a *AutoRefresh) Sync() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sync()
}

// Stop cancels the timer without touching the persisted settings.
func (a *AutoRefresh) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stop()
}

// sync must be called with a.mu held.
func (a *AutoRefresh) sync() error {
	want := a.enabled && len(a.source.Transactions()) > 0
	switch {
	case want && a.sched == nil:
		return a.start()
	case !want && a.sched != nil:
		a.stop()
	}
	return nil
}

func (a *AutoRefresh) tickerScheduler(interval time.Duration, handler func() error) (schedtypes.Scheduler, error) {
	return scheduler.New(
		scheduler.WithContext(a.ctx),
		scheduler.WithLogger(a.logger),
		scheduler.WithInterval(interval),
		scheduler.WithHandler(handler),
	)
}

func (a *AutoRefresh) start() error {
	sched, err := a.schedule(time.Duration(a.interval)*time.Second, a.tick)
	if err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	a.sched = sched
	a.logger.Info("auto refresh started", "interval_seconds", a.interval)
	return nil
}

func (a *AutoRefresh) stop() {
	if a.sched == nil {
		return
	}
	a.sched.Stop()
	a.sched = nil
	a.logger.Info("auto refresh stopped")
}

func (a *AutoRefresh) tick() error {
	res := a.refresher.Refresh(a.ctx)
	if !res.OK() {
		return errors.Errorf("%d of %d feeds failed", len(res.Failures), len(res.Feeds))
	}
	return nil
}
