package wmPubsub

import (
	"context"
	"log/slog"

	"github.com/ramazansancar/stock-cost-calculator/pkg/types/pubsub"

	"github.com/pkg/errors"
)

var (
	ErrInvalidPubSubConfig = errors.New("invalid pubsub config")
	ErrChannelFull         = errors.New("pubsub channel full")
)

var _ pubsub.PubSub = (*PubSub)(nil)

// PubSub moves messages of one topic over a buffered channel. The channel is
// owned by the caller and is never closed here.
type PubSub struct {
	topic        string
	ch           chan []byte
	ctx          context.Context
	logger       *slog.Logger
	handler      pubsub.Handler
	dropWhenFull bool
}

type Option func(*PubSub)

func WithContext(ctx context.Context) Option {
	return func(ps *PubSub) {
		ps.ctx = ctx
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(ps *PubSub) {
		ps.logger = l
	}
}

func WithTopic(topic string) Option {
	return func(ps *PubSub) {
		ps.topic = topic
	}
}

func WithHandler(h pubsub.Handler) Option {
	return func(ps *PubSub) {
		ps.handler = h
	}
}

func WithChannel(ch chan []byte) Option {
	return func(ps *PubSub) {
		ps.ch = ch
	}
}

// WithDropWhenFull makes Publish return ErrChannelFull instead of blocking
// when no buffer space is left.
func WithDropWhenFull() Option {
	return func(ps *PubSub) {
		ps.dropWhenFull = true
	}
}

func (ps *PubSub) IsValid() error {
	switch {
	case ps.ctx == nil:
		return errors.Wrap(ErrInvalidPubSubConfig, "ctx cannot be nil")
	case ps.logger == nil:
		return errors.Wrap(ErrInvalidPubSubConfig, "logger cannot be nil")
	case ps.topic == "":
		return errors.Wrap(ErrInvalidPubSubConfig, "topic cannot be empty")
	case ps.ch == nil:
		return errors.Wrap(ErrInvalidPubSubConfig, "channel cannot be nil")
	default:
		return nil
	}
}

func New(opts ...Option) *PubSub {
	ps := &PubSub{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(ps)
	}

	return ps
}

func (ps *PubSub) Topic() string {
	return ps.topic
}

func (ps *PubSub) Publish(payload []byte) error {
	if err := ps.IsValid(); err != nil {
		return err
	}
	if ps.dropWhenFull {
		select {
		case ps.ch <- payload:
			return nil
		case <-ps.ctx.Done():
			return ps.ctx.Err()
		default:
			return errors.Wrap(ErrChannelFull, ps.topic)
		}
	}
	select {
	case ps.ch <- payload:
		return nil
	case <-ps.ctx.Done():
		return ps.ctx.Err()
	}
}

func (ps *PubSub) Subscribe() error {
	if ps.handler == nil {
		return errors.Wrap(ErrInvalidPubSubConfig, "handler cannot be nil")
	}
	if err := ps.IsValid(); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case msg := <-ps.ch:
				if err := ps.handler(msg); err != nil {
					ps.logger.Error("pubsub handler error", "topic", ps.topic, "error", err)
				}
			case <-ps.ctx.Done():
				return
			}
		}
	}()

	return nil
}
