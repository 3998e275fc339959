package wmPubsub

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/pkg/types/pubsub"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubSub_PublishAndConsume(t *testing.T) {
	ch := make(chan []byte, 1)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	received := make(chan []byte, 1)
	sub := New(
		WithChannel(ch),
		WithContext(ctx),
		WithTopic("test-topic"),
		WithHandler(func(msg []byte) error {
			received <- msg
			return nil
		}),
	)
	err := sub.Subscribe()
	assert.NoError(t, err)

	pub := New(WithChannel(ch), WithContext(ctx), WithTopic("test-topic"))
	payload := []byte("hello world")
	err = pub.Publish(payload)
	assert.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, payload, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive message in time")
	}
}

func TestPubSub_ContextCancellation(t *testing.T) {
	ch := make(chan []byte)
	ctx, cancel := context.WithCancel(t.Context())

	pub := New(WithChannel(ch), WithContext(ctx), WithTopic("test-topic"))

	cancel()
	// unbuffered channel with no reader: only ctx.Done can be selected

	err := pub.Publish([]byte("should fail"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPubSub_SubscribeWithoutHandler(t *testing.T) {
	ch := make(chan []byte, 1)

	sub := New(WithChannel(ch), WithContext(t.Context()), WithTopic("test-topic"))
	err := sub.Subscribe()
	assert.Error(t, err)
}

func TestPubSub_DropWhenFull(t *testing.T) {
	ch := make(chan []byte, 1)
	pub := New(WithChannel(ch), WithContext(t.Context()), WithTopic(pubsub.TopicPrices), WithDropWhenFull())

	assert.NoError(t, pub.Publish([]byte(`{"THYAO":312.5}`)))
	err := pub.Publish([]byte(`{"THYAO":313}`))
	assert.ErrorIs(t, err, ErrChannelFull)
	assert.Equal(t, []byte(`{"THYAO":312.5}`), <-ch)
}

func TestPubSub_PublishInvalidConfig(t *testing.T) {
	pub := New(WithContext(t.Context()), WithTopic(pubsub.TopicPrices))
	err := pub.Publish([]byte("x"))
	assert.ErrorIs(t, err, ErrInvalidPubSubConfig)
}

func TestPubSub_HandlerErrorKeepsConsuming(t *testing.T) {
	ch := make(chan []byte, 2)
	received := make(chan []byte, 2)
	sub := New(
		WithChannel(ch),
		WithContext(t.Context()),
		WithTopic(pubsub.TopicPrices),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithHandler(func(msg []byte) error {
			received <- msg
			return errors.New("boom")
		}),
	)
	require.NoError(t, sub.Subscribe())

	ch <- []byte("first")
	ch <- []byte("second")

	for _, want := range []string{"first", "second"} {
		select {
		case msg := <-received:
			assert.Equal(t, want, string(msg))
		case <-time.After(2 * time.Second):
			t.Fatal("did not receive message in time")
		}
	}
}
