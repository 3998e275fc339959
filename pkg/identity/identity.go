// Package identity keeps the stable random identifier of the local user.
package identity

import (
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/pkg/types/storage"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrInvalidIdentityConfig = errors.New("invalid identity config")

const template = "xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx"

type Provider struct {
	kv      storage.KV
	logger  *slog.Logger
	newUUID func() (uuid.UUID, error)
	rnd     *rand.Rand

	mu sync.Mutex
	id string
}

type Option func(*Provider)

func WithStore(kv storage.KV) Option {
	return func(p *Provider) {
		p.kv = kv
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

// WithUUIDSource replaces the crypto-backed generator.
func WithUUIDSource(f func() (uuid.UUID, error)) Option {
	return func(p *Provider) {
		p.newUUID = f
	}
}

func (p *Provider) IsValid() error {
	switch {
	case p.kv == nil:
		return errors.Wrap(ErrInvalidIdentityConfig, "store cannot be nil")
	case p.logger == nil:
		return errors.Wrap(ErrInvalidIdentityConfig, "logger cannot be nil")
	default:
		return nil
	}
}

func New(opts ...Option) (*Provider, error) {
	p := &Provider{
		newUUID: uuid.NewRandom,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.IsValid(); err != nil {
		return nil, err
	}
	return p, nil
}

// UserID returns the persisted id, creating and storing one on first use.
// It always returns a value; storage failures are only logged.
func (p *Provider) UserID() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.id != "" {
		return p.id
	}

	stored, err := p.kv.Get(storage.KeyUserID)
	switch {
	case err == nil && strings.TrimSpace(stored) != "":
		p.id = strings.TrimSpace(stored)
		return p.id
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		p.logger.Error("failed to read user id", "error", err)
	}

	p.id = p.generate()
	if err := p.kv.Set(storage.KeyUserID, p.id); err != nil {
		p.logger.Error("failed to persist user id", "error", err)
	}
	p.logger.Info("created local user id", "user_id", p.id)
	return p.id
}

func (p *Provider) generate() string {
	u, err := p.newUUID()
	if err == nil {
		return u.String()
	}
	p.logger.Warn("crypto uuid unavailable, using fallback", "error", err)
	return fallbackUUID(p.rnd)
}

// fallbackUUID fills the v4 layout from a pseudo-random source. The y nibble
// carries the RFC 4122 variant bits.
func fallbackUUID(r *rand.Rand) string {
	var b strings.Builder
	b.Grow(len(template))
	for _, c := range template {
		switch c {
		case 'x':
			b.WriteByte(hexDigit(r.Intn(16)))
		case 'y':
			b.WriteByte(hexDigit(r.Intn(4) | 0x8))
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

func hexDigit(v int) byte {
	return "0123456789abcdef"[v]
}

// IsOwner reports whether id is the local user's id.
func (p *Provider) IsOwner(id string) bool {
	return id != "" && id == p.UserID()
}

// Label is the default display name for a profile id.
func (p *Provider) Label(id string) string {
	if p.IsOwner(id) {
		return "You (" + Short(id) + ")"
	}
	return "Profile " + Short(id)
}

// Short returns the first eight characters of id.
func Short(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
