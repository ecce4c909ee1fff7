package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/veranemoloko/route-uploader/internal/domain"
)

const writeWait = 10 * time.Second

// StateSubscriber is the subscription side of the state store.
type StateSubscriber interface {
	Subscribe() (uuid.UUID, <-chan domain.StateChange)
	Unsubscribe(id uuid.UUID)
	Snapshot() map[domain.Category]domain.TaskState
}

// StateStream pushes state snapshots to websocket clients.
type StateStream struct {
	states   StateSubscriber
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewStateStream creates a StateStream over states.
func NewStateStream(states StateSubscriber, logger *slog.Logger) *StateStream {
	return &StateStream{
		states: states,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the connection, sends the current snapshot and then every change.
func (s *StateStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	id, changes := s.states.Subscribe()
	defer s.states.Unsubscribe(id)

	logger := s.logger.With("subscriber_id", id)
	logger.Debug("state subscriber connected")

	if err := s.send(conn, domain.StateChange{States: s.states.Snapshot()}); err != nil {
		logger.Debug("failed to send initial snapshot", "error", err)
		return
	}

	// Clients never send anything meaningful; reading detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case change, ok := <-changes:
			if !ok {
				return
			}
			if err := s.send(conn, change); err != nil {
				logger.Debug("failed to send state change", "error", err)
				return
			}
		case <-closed:
			logger.Debug("state subscriber disconnected")
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (s *StateStream) send(conn *websocket.Conn, change domain.StateChange) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(change)
}
