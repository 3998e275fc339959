// Package ledger mutates the active profile's transaction log. Every change
// is a read-modify-write of the whole log through the profile store.
package ledger

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/internal/valuation"

	"github.com/pkg/errors"
)

var (
	ErrInvalidLedgerConfig  = errors.New("invalid ledger config")
	ErrInvalidDraft         = errors.New("invalid transaction draft")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrConfirmationMismatch = errors.New("confirmation word does not match")
	ErrNoPendingImport      = errors.New("no pending import")
	ErrStaleImport          = errors.New("active profile changed since import was staged")
	ErrViewOwnProfile       = errors.New("cannot open own snapshot as a separate profile")
	ErrUnknownImportMode    = errors.New("unknown import mode")
	ErrOwnerProfileWrite    = errors.New("owner profile changes only through the ledger")
)

// DefaultConfirmWord gates ClearAll.
const DefaultConfirmWord = "delete"

// Profiles is the subset of the profile store the ledger writes through.
type Profiles interface {
	ActiveID() string
	OwnerID() string
	ActiveTransactions() []models.Transaction
	UpdateActiveProfile(transactions []models.Transaction) error
	AddProfile(id string, transactions []models.Transaction, label ...string) (models.Profile, error)
	SwitchProfile(id string) []models.Transaction
	RemoveProfile(id string) error
}

type IDGenerator interface {
	New() string
}

// ImportRecorder keeps an audit row per import attempt.
type ImportRecorder interface {
	CreateImportLog(log *models.ImportLog) error
	UpdateImportLog(log *models.ImportLog) error
}

// ChangeFunc is called after the active log changed.
type ChangeFunc func(transactions []models.Transaction)

type Ledger struct {
	profiles    Profiles
	ids         IDGenerator
	logger      *slog.Logger
	now         func() time.Time
	recorder    ImportRecorder
	confirmWord string
	onChange    []ChangeFunc

	mu      sync.Mutex
	pending *PendingImport
}

type Option func(*Ledger)

func WithProfiles(p Profiles) Option {
	return func(l *Ledger) {
		l.profiles = p
	}
}

func WithIDGenerator(g IDGenerator) Option {
	return func(l *Ledger) {
		l.ids = g
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func WithImportRecorder(r ImportRecorder) Option {
	return func(l *Ledger) {
		l.recorder = r
	}
}

func WithConfirmWord(word string) Option {
	return func(l *Ledger) {
		l.confirmWord = word
	}
}

func WithOnChange(fn ChangeFunc) Option {
	return func(l *Ledger) {
		l.onChange = append(l.onChange, fn)
	}
}

func (l *Ledger) IsValid() error {
	switch {
	case l.profiles == nil:
		return errors.Wrap(ErrInvalidLedgerConfig, "profiles cannot be nil")
	case l.ids == nil:
		return errors.Wrap(ErrInvalidLedgerConfig, "id generator cannot be nil")
	case l.logger == nil:
		return errors.Wrap(ErrInvalidLedgerConfig, "logger cannot be nil")
	case l.now == nil:
		return errors.Wrap(ErrInvalidLedgerConfig, "clock cannot be nil")
	case strings.TrimSpace(l.confirmWord) == "":
		return errors.Wrap(ErrInvalidLedgerConfig, "confirm word cannot be empty")
	default:
		return nil
	}
}

func New(opts ...Option) (*Ledger, error) {
	l := &Ledger{
		now:         time.Now,
		confirmWord: DefaultConfirmWord,
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.IsValid(); err != nil {
		return nil, err
	}
	return l, nil
}

// OnChange registers fn after construction. It must be called before the
// ledger is shared between goroutines.
func (l *Ledger) OnChange(fn ChangeFunc) {
	l.onChange = append(l.onChange, fn)
}

// Draft is the user-supplied part of a new transaction.
type Draft struct {
	Symbol        string                `json:"symbol"`
	SymbolName    string                `json:"symbolName"`
	SymbolDetails *models.SymbolDetails `json:"symbolDetails,omitempty"`
	AssetType     models.AssetType      `json:"assetType"`
	Quantity      float64               `json:"quantity"`
	Price         float64               `json:"price"`
	Type          models.TradeType      `json:"type"`
}

func (d Draft) validate(existing []models.Transaction) error {
	switch {
	case strings.TrimSpace(d.Symbol) == "":
		return errors.Wrap(ErrInvalidDraft, "symbol is required")
	case strings.TrimSpace(d.SymbolName) == "":
		return errors.Wrap(ErrInvalidDraft, "symbol name is required")
	case !d.AssetType.Valid():
		return errors.Wrapf(ErrInvalidDraft, "unknown asset type %q", d.AssetType)
	case !d.Type.Valid():
		return errors.Wrapf(ErrInvalidDraft, "unknown trade type %q", d.Type)
	case !(d.Quantity > 0):
		return errors.Wrap(ErrInvalidDraft, "quantity must be positive")
	case !(d.Price > 0):
		return errors.Wrap(ErrInvalidDraft, "price must be positive")
	}

	if d.Type == models.TradeSell && d.AssetType == models.AssetStock {
		available := valuation.AvailableQuantity(existing, d.Symbol, d.AssetType)
		if d.Quantity > available {
			return errors.Wrapf(ErrInvalidDraft, "sell of %v exceeds held quantity %v", d.Quantity, available)
		}
	}
	return nil
}

// Add validates d, stamps it and appends it to the active log.
func (l *Ledger) Add(d Draft) (models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing := l.profiles.ActiveTransactions()
	if err := d.validate(existing); err != nil {
		return models.Transaction{}, err
	}

	now := l.now()
	tx := models.Transaction{
		ID:         l.ids.New(),
		Symbol:     strings.TrimSpace(d.Symbol),
		SymbolName: strings.TrimSpace(d.SymbolName),
		AssetType:  d.AssetType,
		Quantity:   d.Quantity,
		Price:      d.Price,
		Date:       now.Format(models.DateLayout),
		Type:       d.Type,
		CreatedAt:  now,
	}
	// details describe equities only
	if d.AssetType == models.AssetStock {
		tx.SymbolDetails = d.SymbolDetails
	}

	if err := l.commit(append(existing, tx)); err != nil {
		return models.Transaction{}, err
	}
	l.logger.Info("transaction added",
		"id", tx.ID, "symbol", tx.Symbol, "asset_type", tx.AssetType, "type", tx.Type)
	return tx, nil
}

// Remove drops one transaction from the active log.
func (l *Ledger) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing := l.profiles.ActiveTransactions()
	kept := make([]models.Transaction, 0, len(existing))
	for _, tx := range existing {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	if len(kept) == len(existing) {
		return errors.Wrapf(ErrTransactionNotFound, "id %s", id)
	}
	if err := l.commit(kept); err != nil {
		return err
	}
	l.logger.Info("transaction removed", "id", id)
	return nil
}

// ClearAll empties the active log once confirmation matches the configured
// word, ignoring case and surrounding space.
func (l *Ledger) ClearAll(confirmation string) error {
	if !strings.EqualFold(strings.TrimSpace(confirmation), strings.TrimSpace(l.confirmWord)) {
		return ErrConfirmationMismatch
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.commit([]models.Transaction{}); err != nil {
		return err
	}
	l.pending = nil
	l.logger.Warn("transaction log cleared", "profile_id", l.profiles.ActiveID())
	return nil
}

func (l *Ledger) ConfirmWord() string {
	return l.confirmWord
}

func (l *Ledger) Transactions() []models.Transaction {
	return l.profiles.ActiveTransactions()
}

// History returns a page of the active log, newest first. A non-positive
// limit returns everything after offset.
func (l *Ledger) History(limit, offset int) ([]models.Transaction, int) {
	txs := l.profiles.ActiveTransactions()
	total := len(txs)
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []models.Transaction{}, total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return txs[offset:end], total
}

// SwitchProfile makes id the active profile. Any staged replace belongs to
// the previous profile and is left to go stale.
func (l *Ledger) SwitchProfile(id string) []models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	txs := l.profiles.SwitchProfile(id)
	l.notify(txs)
	l.logger.Info("profile switched", "profile_id", id, "transactions", len(txs))
	return txs
}

// StoreProfile adds or replaces a non-owner profile without switching to it.
// Replacing the active profile notifies listeners with its new log.
func (l *Ledger) StoreProfile(id, label string, transactions []models.Transaction) (models.Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id == l.profiles.OwnerID() {
		return models.Profile{}, errors.Wrapf(ErrOwnerProfileWrite, "profile %q", id)
	}
	p, err := l.profiles.AddProfile(id, transactions, label)
	if err != nil {
		return models.Profile{}, err
	}
	if id == l.profiles.ActiveID() {
		l.notify(l.profiles.ActiveTransactions())
	}
	return p, nil
}

// RemoveProfile deletes a non-owner profile. Removing the active profile
// falls back to the owner.
func (l *Ledger) RemoveProfile(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	wasActive := id == l.profiles.ActiveID()
	if err := l.profiles.RemoveProfile(id); err != nil {
		return err
	}
	if wasActive && l.profiles.ActiveID() != id {
		l.notify(l.profiles.ActiveTransactions())
	}
	return nil
}

// commit must be called with l.mu held.
func (l *Ledger) commit(transactions []models.Transaction) error {
	if err := l.profiles.UpdateActiveProfile(transactions); err != nil {
		return errors.Wrap(err, "failed to persist transactions")
	}
	l.notify(transactions)
	return nil
}

func (l *Ledger) notify(transactions []models.Transaction) {
	for _, fn := range l.onChange {
		fn(transactions)
	}
}
