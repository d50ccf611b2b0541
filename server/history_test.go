package main

import (
	"fmt"
	"testing"

	"mcportal/types"
)

func TestHistoryRequestReturnsOrderedBatch(t *testing.T) {
	resetChatState(t)
	chatBridge := &stubBridge{
		history: []types.ChatMessage{
			{Text: "[Alice]: first"},
			{Text: "<Steve> second"},
			{Text: "[WebChat]: third", Image: "https://cdn.example/pic.png"},
		},
	}
	startTestRelay(t, chatBridge, nil)

	client := newTestClient(t)

	handleHistoryRequest(client)

	msg := receiveEvent(t, client, "history")
	payloads, ok := msg.Data.([]MessagePayload)
	if !ok {
		t.Fatalf("unexpected history payload type %T", msg.Data)
	}
	if len(payloads) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(payloads))
	}

	if payloads[0].Kind != KindDiscord || payloads[0].Name != "Alice" || payloads[0].Text != "first" {
		t.Fatalf("unexpected first entry %+v", payloads[0])
	}
	if payloads[1].Kind != KindMinecraft || payloads[1].Name != "Steve" || payloads[1].Text != "second" {
		t.Fatalf("unexpected second entry %+v", payloads[1])
	}
	if payloads[2].Kind != KindWeb || payloads[2].Text != "third" || payloads[2].Image != "https://cdn.example/pic.png" {
		t.Fatalf("unexpected third entry %+v", payloads[2])
	}
}

func TestHistoryFetchFailureReturnsEmptyBatch(t *testing.T) {
	resetChatState(t)
	chatBridge := &stubBridge{historyErr: fmt.Errorf("channel unreachable")}
	startTestRelay(t, chatBridge, nil)

	client := newTestClient(t)

	handleHistoryRequest(client)

	msg := receiveEvent(t, client, "history")
	payloads := msg.Data.([]MessagePayload)
	if len(payloads) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(payloads))
	}
}

func TestHistoryWithoutBridgeReturnsEmptyBatch(t *testing.T) {
	resetChatState(t)
	startTestRelay(t, nil, nil)

	client := newTestClient(t)

	handleHistoryRequest(client)

	msg := receiveEvent(t, client, "history")
	if payloads := msg.Data.([]MessagePayload); len(payloads) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(payloads))
	}
}
