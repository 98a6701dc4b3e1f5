package notifier

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// upgrader follows the standard gorilla/websocket handshake config; origin
// checking is left to the caller's CORS/proxy layer, matching the core's
// "no CORS in scope" boundary (spec.md §1).
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const writeWait = 5 * time.Second

// ServeWS upgrades the HTTP connection and relays every Hub broadcast to
// the client as a text frame whose payload is "stateChanged", until the client
// disconnects or the request context is cancelled.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, unsubscribe := h.Subscribe()
	defer unsubscribe()

	// drain client reads in the background so the connection notices
	// close/ping frames; we don't expect inbound application messages.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte("stateChanged")); err != nil {
				log.Printf("notifier: write failed, closing conn: %v", err)
				return nil
			}
		}
	}
}
