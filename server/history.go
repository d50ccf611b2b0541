package main

import (
	"context"
	"log"
)

const historyFetchLimit = 100

// handleHistoryRequest pulls recent bridged-channel messages and sends
// them to the requesting client, oldest first. History is pulled, not
// pushed on connect, so a slow-rendering client never receives it
// before it is ready. A fetch failure degrades to an empty batch.
func handleHistoryRequest(client *Client) {
	payloads := []MessagePayload{}

	if relay != nil && relay.bridge != nil {
		ctx, cancel := context.WithTimeout(context.Background(), bridgeCallTimeout)
		defer cancel()

		messages, err := relay.bridge.FetchRecent(ctx, historyFetchLimit)
		if err != nil {
			log.Println("History fetch failed:", err)
		} else {
			for _, msg := range messages {
				payload := relay.render(msg)
				if payload.Text == "" && payload.Image == "" {
					continue
				}
				payloads = append(payloads, payload)
			}
		}
	}

	safeSend(client, client.Conn, WSMessage{Type: "history", Data: payloads})
}
