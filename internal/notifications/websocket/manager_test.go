package websocket

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devlink/portal/portal-backend/internal/notifications"
)

func TestEnqueueAfterShutdown(t *testing.T) {
	conn := &Connection{
		ID:     uuid.New().String(),
		UserID: uuid.New(),
		Send:   make(chan notifications.WebSocketMessage, 1),
	}

	require.True(t, conn.enqueue(notifications.WebSocketMessage{Type: notifications.WSMessageTypeEvent}))

	conn.shutdown()
	conn.shutdown() // repeat shutdown is a no-op

	// Sending to a shut-down connection is refused, not a panic
	assert.False(t, conn.enqueue(notifications.WebSocketMessage{Type: notifications.WSMessageTypeEvent}))
}

func TestEnqueueRefusesFullBuffer(t *testing.T) {
	conn := &Connection{
		ID:     uuid.New().String(),
		UserID: uuid.New(),
		Send:   make(chan notifications.WebSocketMessage, 1),
	}

	require.True(t, conn.enqueue(notifications.WebSocketMessage{}))
	assert.False(t, conn.enqueue(notifications.WebSocketMessage{}))
}

func TestSendToUserSkipsShutDownConnection(t *testing.T) {
	m := NewManager(zap.NewNop())

	conn := &Connection{
		ID:     uuid.New().String(),
		UserID: uuid.New(),
		Send:   make(chan notifications.WebSocketMessage, 1),
	}
	m.mu.Lock()
	m.connections[conn.ID] = conn
	m.mu.Unlock()

	conn.shutdown()

	err := m.SendToUser(conn.UserID, notifications.WebSocketMessage{Type: notifications.WSMessageTypeEvent})
	assert.Error(t, err)
}
