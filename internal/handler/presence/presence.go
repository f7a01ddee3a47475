package presence

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/csquest/api/internal/presence"
)

type Handler struct {
	hub    *presence.Hub
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger, hub *presence.Hub) *Handler {
	return &Handler{hub: hub, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/presence", h.serve)
	return r
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Hour)
	defer cancel()

	var id string
	defer func() {
		if id != "" {
			h.hub.Leave(id)
		}
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			h.logger.Debug("websocket read ended", "error", err)
			return
		}

		var msg presence.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Debug("invalid presence message", "error", err)
			continue
		}

		switch msg.Type {
		case presence.TypeJoinGame:
			if id != "" {
				continue
			}
			var out <-chan []byte
			id, out = h.hub.Join(msg.Username)
			go h.pump(ctx, conn, out, cancel)
		case presence.TypeMove:
			if id != "" {
				h.hub.Move(id, msg.X, msg.Y)
			}
		}
	}
}

// pump writes hub messages to the socket until the hub closes the channel
// or a write fails.
func (h *Handler) pump(ctx context.Context, conn *websocket.Conn, out <-chan []byte, cancel context.CancelFunc) {
	for data := range out {
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			h.logger.Debug("websocket write failed", "error", err)
			cancel()
			return
		}
	}
}
