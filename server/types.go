package main

import (
	"log"

	"github.com/gorilla/websocket"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Client struct {
	Conn       *websocket.Conn
	ClientUUID string
	IP         string
	SendQueue  chan WSMessage
	Done       chan struct{}
}

func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		select {
		case msg, ok := <-c.SendQueue:
			if !ok {
				return
			}

			if err := c.Conn.WriteJSON(msg); err != nil {
				log.Println("WritePump error:", err)
				return
			}
		case <-c.Done:
			return
		}
	}
}

type ChatError struct {
	Content string `json:"error"`
}

type CooldownNotice struct {
	SecondsRemaining int `json:"seconds_remaining"`
}

// MessagePayload is the wire shape for both live messages and history
// entries. Online is set only for minecraft-author messages whose
// player record is known.
type MessagePayload struct {
	Kind   string `json:"kind"`
	Name   string `json:"name,omitempty"`
	Text   string `json:"text"`
	Image  string `json:"image,omitempty"`
	Online *bool  `json:"online,omitempty"`
}
