package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	clientsMu sync.Mutex
	clients   = map[string]*Client{}
)

func decodeData[T any](raw interface{}) (T, error) {
	var data T
	bytes, err := json.Marshal(raw)
	if err != nil {
		return data, err
	}
	err = json.Unmarshal(bytes, &data)
	return data, err
}

func HandleSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}
	conn.SetReadLimit(64 * 1024)
	defer conn.Close()

	client := registerClient(conn, c.ClientIP())
	defer cleanupClient(client)

	for {
		_, msgBytes, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var wsMsg WSMessage
		if err := json.Unmarshal(msgBytes, &wsMsg); err != nil {
			log.Println("Invalid message format:", err)
			continue
		}

		dispatchMessage(client, wsMsg)
	}
}

func registerClient(conn *websocket.Conn, clientIP string) *Client {
	client := &Client{
		Conn:       conn,
		ClientUUID: uuid.New().String(),
		IP:         clientIP,
		SendQueue:  make(chan WSMessage, 64),
		Done:       make(chan struct{}),
	}

	clientsMu.Lock()
	clients[client.ClientUUID] = client
	clientsMu.Unlock()

	go client.WritePump()
	return client
}

func cleanupClient(client *Client) {
	clientsMu.Lock()
	delete(clients, client.ClientUUID)
	clientsMu.Unlock()

	chatCooldowns.clear(client.ClientUUID)

	close(client.SendQueue)
	close(client.Done)
}

func safeSend(client *Client, conn *websocket.Conn, msg WSMessage) {
	if client != nil && client.SendQueue != nil {
		select {
		case client.SendQueue <- msg:
		default:
			log.Printf("safeSend: send queue full for client %s, dropping message", client.ClientUUID)
		}
	} else if conn != nil {
		_ = conn.WriteJSON(msg)
	}
}

func broadcastAll(msg WSMessage) {
	clientsMu.Lock()
	defer clientsMu.Unlock()

	for _, client := range clients {
		safeSend(client, client.Conn, msg)
	}
}
