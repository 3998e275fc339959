// Package profile keeps the registry of switchable transaction logs. The
// owner profile always exists and cannot be removed.
package profile

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/storage"

	"github.com/pkg/errors"
)

var (
	ErrInvalidStoreConfig = errors.New("invalid profile store config")
	ErrEmptyProfileID     = errors.New("profile id cannot be empty")
	ErrProfileNotFound    = errors.New("profile not found")
)

// Identity resolves the local owner and default labels.
type Identity interface {
	UserID() string
	Label(id string) string
}

type Store struct {
	kv       storage.KV
	identity Identity
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	profiles []models.Profile
	activeID string
}

type Option func(*Store)

func WithStore(kv storage.KV) Option {
	return func(s *Store) {
		s.kv = kv
	}
}

func WithIdentity(id Identity) Option {
	return func(s *Store) {
		s.identity = id
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func (s *Store) IsValid() error {
	switch {
	case s.kv == nil:
		return errors.Wrap(ErrInvalidStoreConfig, "store cannot be nil")
	case s.identity == nil:
		return errors.Wrap(ErrInvalidStoreConfig, "identity cannot be nil")
	case s.logger == nil:
		return errors.Wrap(ErrInvalidStoreConfig, "logger cannot be nil")
	case s.now == nil:
		return errors.Wrap(ErrInvalidStoreConfig, "clock cannot be nil")
	default:
		return nil
	}
}

func New(opts ...Option) (*Store, error) {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.IsValid(); err != nil {
		return nil, err
	}
	return s, nil
}

// Initialize loads the persisted registry and makes the owner profile active,
// creating it from the legacy transaction slot when missing. Running it again
// reloads the same state.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner := s.identity.UserID()
	profiles := s.loadProfiles()

	found := false
	for i := range profiles {
		profiles[i].IsOwner = profiles[i].ID == owner
		if profiles[i].IsOwner {
			found = true
		}
		if profiles[i].Transactions == nil {
			profiles[i].Transactions = []models.Transaction{}
		}
	}
	if !found {
		profiles = append(profiles, models.Profile{
			ID:           owner,
			Label:        s.identity.Label(owner),
			Transactions: s.loadLegacy(),
			IsOwner:      true,
			LastUpdated:  s.now(),
		})
		s.logger.Info("created owner profile", "profile_id", owner)
	}

	s.profiles = profiles
	s.activeID = owner
	return s.saveProfiles()
}

func (s *Store) loadProfiles() []models.Profile {
	raw, err := s.kv.Get(storage.KeyProfiles)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("failed to read profiles", "error", err)
		}
		return nil
	}
	var profiles []models.Profile
	if err := json.Unmarshal([]byte(raw), &profiles); err != nil {
		s.logger.Warn("discarding unreadable profiles", "error", err)
		return nil
	}

	// drop entries that cannot be addressed and keep the last copy of an id
	seen := make(map[string]int, len(profiles))
	out := make([]models.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.ID == "" {
			continue
		}
		if i, ok := seen[p.ID]; ok {
			out[i] = p
			continue
		}
		seen[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}

func (s *Store) loadLegacy() []models.Transaction {
	transactions := []models.Transaction{}
	raw, err := s.kv.Get(storage.KeyTransactions)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("failed to read legacy transactions", "error", err)
		}
		return transactions
	}
	if err := json.Unmarshal([]byte(raw), &transactions); err != nil || transactions == nil {
		s.logger.Warn("discarding unreadable legacy transactions", "error", err)
		return []models.Transaction{}
	}
	return transactions
}

func (s *Store) saveProfiles() error {
	data, err := json.Marshal(s.profiles)
	if err != nil {
		return errors.Wrap(err, "failed to encode profiles")
	}
	if err := s.kv.Set(storage.KeyProfiles, string(data)); err != nil {
		return errors.Wrap(err, "failed to persist profiles")
	}
	return nil
}

func (s *Store) saveLegacy(transactions []models.Transaction) error {
	data, err := json.Marshal(transactions)
	if err != nil {
		return errors.Wrap(err, "failed to encode transactions")
	}
	if err := s.kv.Set(storage.KeyTransactions, string(data)); err != nil {
		return errors.Wrap(err, "failed to persist transactions")
	}
	return nil
}

// AddProfile stores the profile for id, replacing any existing one.
func (s *Store) AddProfile(id string, transactions []models.Transaction, label ...string) (models.Profile, error) {
	if id == "" {
		return models.Profile{}, ErrEmptyProfileID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := models.Profile{
		ID:           id,
		Label:        s.identity.Label(id),
		Transactions: clone(transactions),
		IsOwner:      id == s.identity.UserID(),
		LastUpdated:  s.now(),
	}
	if len(label) > 0 && label[0] != "" {
		p.Label = label[0]
	}

	s.profiles = append(s.without(id), p)
	if err := s.saveProfiles(); err != nil {
		return models.Profile{}, err
	}
	s.logger.Info("profile stored", "profile_id", id, "transactions", len(p.Transactions))
	return withCopy(p), nil
}

// SwitchProfile makes id active and returns its log. An unknown id yields an
// empty log.
func (s *Store) SwitchProfile(id string) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeID = id
	if i := s.index(id); i >= 0 {
		return clone(s.profiles[i].Transactions)
	}
	s.logger.Debug("switched to unknown profile", "profile_id", id)
	return []models.Transaction{}
}

// UpdateActiveProfile overwrites the active profile's log. For the owner the
// legacy slot is written as well. An active id with no stored profile fails
// with ErrProfileNotFound.
func (s *Store) UpdateActiveProfile(transactions []models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(s.activeID)
	if i < 0 {
		return errors.Wrapf(ErrProfileNotFound, "active profile %q", s.activeID)
	}
	s.profiles[i].Transactions = clone(transactions)
	s.profiles[i].LastUpdated = s.now()
	if err := s.saveProfiles(); err != nil {
		return err
	}
	if s.activeID == s.identity.UserID() {
		return s.saveLegacy(transactions)
	}
	return nil
}

// RemoveProfile deletes id. The owner profile is never removed.
func (s *Store) RemoveProfile(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner := s.identity.UserID()
	if id == owner {
		s.logger.Debug("refusing to remove owner profile", "profile_id", id)
		return nil
	}
	if s.index(id) < 0 {
		return nil
	}

	s.profiles = s.without(id)
	if s.activeID == id {
		s.activeID = owner
	}
	s.logger.Info("profile removed", "profile_id", id)
	return s.saveProfiles()
}

func (s *Store) ActiveProfile() (models.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.index(s.activeID); i >= 0 {
		return withCopy(s.profiles[i]), true
	}
	return models.Profile{}, false
}

// ActiveTransactions returns a copy of the active log, empty when the active
// id has no profile.
func (s *Store) ActiveTransactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.index(s.activeID); i >= 0 {
		return clone(s.profiles[i].Transactions)
	}
	return []models.Transaction{}
}

func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

func (s *Store) OwnerID() string {
	return s.identity.UserID()
}

func (s *Store) Profile(id string) (models.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.index(id); i >= 0 {
		return withCopy(s.profiles[i]), true
	}
	return models.Profile{}, false
}

func (s *Store) Profiles() []models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Profile, len(s.profiles))
	for i, p := range s.profiles {
		out[i] = withCopy(p)
	}
	return out
}

func (s *Store) index(id string) int {
	for i := range s.profiles {
		if s.profiles[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) without(id string) []models.Profile {
	out := make([]models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func clone(transactions []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(transactions))
	copy(out, transactions)
	return out
}

func withCopy(p models.Profile) models.Profile {
	p.Transactions = clone(p.Transactions)
	return p
}
