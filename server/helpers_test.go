package main

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mcportal/db"
	"mcportal/types"

	"github.com/google/uuid"
)

const testReadTimeout = 3 * time.Second

// stubBridge stands in for the Discord connector in tests.
type stubBridge struct {
	mu         sync.Mutex
	sent       []string
	history    []types.ChatMessage
	historyErr error
	fileURL    string
	fileErr    error
}

func (b *stubBridge) SendMessage(ctx context.Context, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, text)
	return nil
}

func (b *stubBridge) SendFile(ctx context.Context, name string, file io.Reader, caption string) (string, error) {
	if b.fileErr != nil {
		return "", b.fileErr
	}
	return b.fileURL, nil
}

func (b *stubBridge) FetchRecent(ctx context.Context, limit int) ([]types.ChatMessage, error) {
	if b.historyErr != nil {
		return nil, b.historyErr
	}
	return b.history, nil
}

func (b *stubBridge) sentMessages() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.sent...)
}

// resetChatState swaps the package-level connection registry, cooldown
// map, and router for the duration of one test.
func resetChatState(t *testing.T) {
	t.Helper()

	clientsMu.Lock()
	prevClients := clients
	clients = map[string]*Client{}
	clientsMu.Unlock()

	chatCooldowns.mu.Lock()
	prevCooldowns := chatCooldowns.lastSend
	chatCooldowns.lastSend = make(map[string]time.Time)
	chatCooldowns.mu.Unlock()

	prevRelay := relay
	prevForwarder := minecraftForwarder
	minecraftForwarder = nil

	t.Cleanup(func() {
		clientsMu.Lock()
		clients = prevClients
		clientsMu.Unlock()

		chatCooldowns.mu.Lock()
		chatCooldowns.lastSend = prevCooldowns
		chatCooldowns.mu.Unlock()

		relay = prevRelay
		minecraftForwarder = prevForwarder
	})
}

// startTestRelay installs and runs a router for one test.
func startTestRelay(t *testing.T, chatBridge ChatBridge, presence presenceFunc) *Router {
	t.Helper()

	relay = NewRouter(chatBridge, NewNormalizer("", "WebChat"), presence)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go relay.Run(ctx)

	return relay
}

// newTestClient registers a client with a live send queue but no
// websocket connection; queued events stay put for assertions.
func newTestClient(t *testing.T) *Client {
	t.Helper()

	client := &Client{
		ClientUUID: uuid.NewString(),
		SendQueue:  make(chan WSMessage, 16),
		Done:       make(chan struct{}),
	}

	clientsMu.Lock()
	clients[client.ClientUUID] = client
	clientsMu.Unlock()

	return client
}

func receiveEvent(t *testing.T, client *Client, wantType string) WSMessage {
	t.Helper()

	select {
	case msg := <-client.SendQueue:
		if msg.Type != wantType {
			t.Fatalf("expected %q event, got %q", wantType, msg.Type)
		}
		return msg
	case <-time.After(testReadTimeout):
		t.Fatalf("timed out waiting for %q event", wantType)
	}
	return WSMessage{}
}

func expectNoEvent(t *testing.T, client *Client) {
	t.Helper()

	select {
	case msg := <-client.SendQueue:
		t.Fatalf("expected no event, got %q", msg.Type)
	case <-time.After(150 * time.Millisecond):
	}
}

// setupTestDB points db.SiteDB at a temp SQLite file with the site
// schema applied.
func setupTestDB(t *testing.T) {
	t.Helper()

	siteDB, err := db.InitSQLite(filepath.Join(t.TempDir(), "site_test.sqlite"))
	if err != nil {
		t.Fatalf("init sqlite: %v", err)
	}

	prev := db.SiteDB
	db.SiteDB = siteDB
	if err := ensureSiteSchema(); err != nil {
		t.Fatalf("ensure site schema: %v", err)
	}

	t.Cleanup(func() {
		siteDB.Close()
		db.SiteDB = prev
	})
}
