package broadcast

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WebsocketServer bridges hub subscriptions onto websocket connections.
// Clients join and leave scenario rooms by sending text frames:
//
//	join:scenario <id>
//	leave:scenario <id>
type WebsocketServer struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewWebsocketServer creates the websocket bridge.
func NewWebsocketServer(hub *Hub, log *zap.Logger) *WebsocketServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebsocketServer{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Origin policy is enforced by the CORS layer in front.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// ServeHTTP upgrades the connection and pumps hub events until the client
// disconnects.
func (s *WebsocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := s.hub.Subscribe()
	done := make(chan struct{})

	go s.readPump(conn, sub, done)
	s.writePump(conn, sub, done)

	s.hub.Unsubscribe(sub)
	_ = conn.Close()
}

// readPump consumes join/leave frames.
func (s *WebsocketServer) readPump(conn *websocket.Conn, sub *Subscriber, done chan struct{}) {
	defer close(done)

	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		text := strings.TrimSpace(string(message))
		switch {
		case strings.HasPrefix(text, "join:scenario"):
			id := strings.TrimSpace(strings.TrimPrefix(text, "join:scenario"))
			s.hub.Join(sub, RoomForScenario(id))
		case strings.HasPrefix(text, "leave:scenario"):
			id := strings.TrimSpace(strings.TrimPrefix(text, "leave:scenario"))
			s.hub.Leave(sub, RoomForScenario(id))
		}
	}
}

// writePump serializes hub events to the wire and keeps the connection
// alive with pings.
func (s *WebsocketServer) writePump(conn *websocket.Conn, sub *Subscriber, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
