package main

import (
	"context"
	"io"
	"log"
	"time"

	"mcportal/types"
)

const (
	inboundQueueSize  = 64
	bridgeCallTimeout = 5 * time.Second
)

// relay is the process-wide router instance, constructed in main with
// its bridge handle injected.
var relay *Router

// ChatBridge is the outbound surface of the bridged chat platform. The
// Discord connector implements it; tests substitute a stub.
type ChatBridge interface {
	SendMessage(ctx context.Context, text string) error
	SendFile(ctx context.Context, name string, file io.Reader, caption string) (string, error)
	FetchRecent(ctx context.Context, limit int) ([]types.ChatMessage, error)
}

type presenceFunc func(name string) (online bool, known bool)

// Router fans inbound messages from every source through one queue and
// one dispatch loop, so broadcast order is arrival order and
// backpressure is explicit.
type Router struct {
	bridge     ChatBridge
	normalizer *Normalizer
	presence   presenceFunc
	inbound    chan types.ChatMessage
}

func NewRouter(bridge ChatBridge, normalizer *Normalizer, presence presenceFunc) *Router {
	return &Router{
		bridge:     bridge,
		normalizer: normalizer,
		presence:   presence,
		inbound:    make(chan types.ChatMessage, inboundQueueSize),
	}
}

// Inbound is the queue feeding the dispatch loop; the bridge connector
// writes into it directly.
func (r *Router) Inbound() chan<- types.ChatMessage {
	return r.inbound
}

// Enqueue queues a message for broadcast. Messages with no text and no
// image are dropped.
func (r *Router) Enqueue(msg types.ChatMessage) {
	if msg.Text == "" && msg.Image == "" {
		return
	}
	select {
	case r.inbound <- msg:
	default:
		log.Println("Relay inbound queue full, dropping message")
	}
}

// Run consumes the inbound queue until ctx is cancelled, broadcasting
// each message to every connected web client in arrival order.
func (r *Router) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-r.inbound:
			payload := r.render(msg)
			if payload.Text == "" && payload.Image == "" {
				continue
			}
			broadcastAll(WSMessage{Type: "message", Data: payload})
		}
	}
}

func (r *Router) render(msg types.ChatMessage) MessagePayload {
	n := r.normalizer.Normalize(msg)
	payload := MessagePayload{
		Kind:  n.Kind,
		Name:  n.Name,
		Text:  n.Body,
		Image: n.Image,
	}
	if n.Kind == KindMinecraft && r.presence != nil {
		if online, known := r.presence(n.Name); known {
			payload.Online = &online
		}
	}
	return payload
}

// ForwardToBridge delivers an allowed web message to the bridged
// channel. Broadcast never waits on bridge delivery; failures are
// logged, not surfaced to the sender.
func (r *Router) ForwardToBridge(text string) {
	if r.bridge == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), bridgeCallTimeout)
		defer cancel()

		if err := r.bridge.SendMessage(ctx, text); err != nil {
			log.Println("Bridge send failed:", err)
		}
	}()
}
