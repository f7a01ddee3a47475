package presence_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/csquest/api/internal/handler/presence"
	hub "github.com/csquest/api/internal/presence"
)

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, msg hub.Message) {
	t.Helper()
	data, _ := json.Marshal(msg)
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func recv(t *testing.T, ctx context.Context, conn *websocket.Conn) hub.Message {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg hub.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decoding %s: %v", data, err)
	}
	return msg
}

func TestPresenceRelay(t *testing.T) {
	h := presence.NewHandler(slog.Default(), hub.NewHub(slog.Default()))
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + srv.URL[len("http"):] + "/presence"

	ada := dial(t, ctx, wsURL)
	send(t, ctx, ada, hub.Message{Type: hub.TypeJoinGame, Username: "ada"})
	joined := recv(t, ctx, ada)
	if joined.Type != hub.TypeJoined || joined.ID == "" {
		t.Fatalf("joined = %+v", joined)
	}
	if m := recv(t, ctx, ada); m.Type != hub.TypePlayersList || len(m.Players) != 1 {
		t.Fatalf("players list = %+v", m)
	}

	grace := dial(t, ctx, wsURL)
	send(t, ctx, grace, hub.Message{Type: hub.TypeJoinGame, Username: "grace"})
	graceID := recv(t, ctx, grace).ID
	recv(t, ctx, grace)

	if m := recv(t, ctx, ada); m.Type != hub.TypePlayerJoined || m.Player.Username != "grace" {
		t.Fatalf("ada got %+v", m)
	}

	send(t, ctx, grace, hub.Message{Type: hub.TypeMove, X: 600, Y: 400})
	if m := recv(t, ctx, ada); m.Type != hub.TypePlayerMoved || m.ID != graceID || m.X != 600 {
		t.Fatalf("ada got %+v", m)
	}

	grace.Close(websocket.StatusNormalClosure, "done")
	if m := recv(t, ctx, ada); m.Type != hub.TypePlayerLeft || m.ID != graceID {
		t.Fatalf("ada got %+v", m)
	}

	ada.Close(websocket.StatusNormalClosure, "done")
}
