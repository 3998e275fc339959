package controller

import (
	"io"
	"sync"

	"github.com/gin-gonic/gin"
)

// Hub fans each broadcast out to every connected stream. A client that is
// not keeping up misses messages instead of blocking the others.
type Hub struct {
	mu      sync.Mutex
	buffer  int
	clients map[chan []byte]struct{}
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{buffer: buffer, clients: map[chan []byte]struct{}{}}
}

// Subscribe registers a client. The returned func unregisters it and closes
// the channel.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, h.buffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Handle adapts Broadcast to a pubsub handler.
func (h *Hub) Handle(msg []byte) error {
	h.Broadcast(msg)
	return nil
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// SSEPrices godoc
// @Summary Stream live prices
// @Description Server-Sent Events endpoint; every completed refresh sends a prices event
// @Tags prices
// @Produce text/event-stream
// @Success 200 {string} string "SSE stream"
// @Router /api/prices/stream [get]
func SSEPrices(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		priceCh, unsubscribe := hub.Subscribe()
		defer unsubscribe()

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		c.Stream(func(w io.Writer) bool {
			select {
			case msg, ok := <-priceCh:
				if !ok {
					return false
				}
				c.SSEvent("prices", string(msg))
				c.Writer.Flush()
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
