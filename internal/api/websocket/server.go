package websocket

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/logging"
	"github.com/fortuna/acbscout/internal/publisher"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from the same process; any origin may listen.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades requests and registers the connection with hub.
func Handler(hub *Hub, logger *zap.Logger) http.HandlerFunc {
	logger = logging.OrNop(logger).Named("websocket")
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			hub:  hub,
			conn: conn,
			send: make(chan []byte, 256),
		}
		if !client.hub.join(client) {
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

// EventSource delivers snapshot events until its context ends.
type EventSource interface {
	Run(ctx context.Context, handle func(publisher.SnapshotEvent)) error
}

// Bridge broadcasts every event from src to the hub's clients as JSON.
func Bridge(ctx context.Context, src EventSource, hub *Hub, logger *zap.Logger) error {
	logger = logging.OrNop(logger).Named("bridge")
	return src.Run(ctx, func(ev publisher.SnapshotEvent) {
		data, err := sonic.Marshal(ev)
		if err != nil {
			logger.Warn("encode event", zap.Error(err))
			return
		}
		hub.Broadcast(data)
	})
}
