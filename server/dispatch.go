package main

import (
	"log"
	"strings"
	"time"

	"mcportal/types"
)

func dispatchMessage(client *Client, wsMsg WSMessage) {
	switch wsMsg.Type {
	case "request-history":
		handleHistoryRequest(client)
	case "send-message":
		text, err := decodeData[string](wsMsg.Data)
		if err != nil {
			safeSend(client, client.Conn, WSMessage{Type: "error", Data: ChatError{Content: "Invalid chat message data"}})
			return
		}
		handleSendMessage(client, text)
	default:
		log.Println("Unknown message type:", wsMsg.Type)
	}
}

func handleSendMessage(client *Client, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	remaining, allowed := chatCooldowns.check(client.ClientUUID, time.Now())
	if !allowed {
		safeSend(client, client.Conn, WSMessage{
			Type: "cooldown",
			Data: CooldownNotice{SecondsRemaining: cooldownSeconds(remaining)},
		})
		return
	}

	relay.Enqueue(types.ChatMessage{Text: text})
	relay.ForwardToBridge(text)
	forwardToMinecraft(text)
}
