package http

import (
	"log"
	"net/http"
	"strings"

	"quiznet/internal/server"
	"github.com/gorilla/websocket"
)

// WSHandler exposes the quiz's line protocol over websockets so browser
// clients can join the same game as raw TCP ones. One text message carries
// one protocol line; framing replaces the newline terminator.
type WSHandler struct {
	hub      *server.Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *server.Hub) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the request and attaches the socket to the hub.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}

	client := server.NewClient(
		func(line string) error {
			return conn.WriteMessage(websocket.TextMessage, []byte(line))
		},
		conn.Close,
	)
	h.hub.Register(client)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		line := strings.TrimSpace(string(data))
		if line == "" {
			continue
		}
		if !h.hub.Inbound(client, line) {
			return
		}
	}
	h.hub.Drop(client)
}
