package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quiznet/internal/domain"
	"quiznet/internal/quiz"
	"quiznet/internal/server"
	"github.com/gorilla/websocket"
)

func TestWebSocketJoinFlow(t *testing.T) {
	bank := domain.Bank{
		ID: "default",
		Questions: []domain.Question{
			{ID: "Q0", Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5"}, Correct: 1},
		},
	}
	hub := server.NewHub(bank, quiz.NewScoreboard(), quiz.NewScheduler(bank), time.Second, time.Second)
	stop := make(chan struct{})
	go hub.Run(stop)
	defer func() {
		close(stop)
		<-hub.Done()
	}()

	wsHandler := NewWSHandler(hub)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	httpServer := httptest.NewServer(mux)
	defer httpServer.Close()

	u := "ws" + httpServer.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if got := readLine(t, conn); !strings.HasPrefix(got, "INFO|Welcome to QuizNet!") {
		t.Fatalf("expected welcome banner, got %q", got)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("JOIN|alice")); err != nil {
		t.Fatalf("write join: %v", err)
	}
	if got := readLine(t, conn); got != "WELCOME|session|1" {
		t.Fatalf("expected welcome ack, got %q", got)
	}
	if got := readLine(t, conn); got != "INFO|alice joined. Players: 1" {
		t.Fatalf("expected join notice, got %q", got)
	}

	// Websocket clients share the hub with TCP clients: chat round-trips.
	if err := conn.WriteMessage(websocket.TextMessage, []byte("CHAT|hello")); err != nil {
		t.Fatalf("write chat: %v", err)
	}
	if got := readLine(t, conn); got != "CHAT|alice|hello" {
		t.Fatalf("expected chat echo, got %q", got)
	}
}

func readLine(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	return string(data)
}
