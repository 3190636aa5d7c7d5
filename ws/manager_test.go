package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func startManager() *WebSocketManager {
	manager := NewWebSocketManager()
	go manager.Run()
	return manager
}

func connect(t *testing.T, manager *WebSocketManager, userID string) *Client {
	t.Helper()

	client := &Client{
		UserID:  userID,
		Send:    make(chan any, 8),
		Manager: manager,
	}
	manager.register <- client

	assert.Eventually(t, func() bool {
		return manager.IsUserConnected(userID)
	}, time.Second, 5*time.Millisecond)

	return client
}

func receive(t *testing.T, client *Client) Event {
	t.Helper()

	select {
	case msg := <-client.Send:
		event, ok := msg.(Event)
		assert.True(t, ok, "expected an Event envelope, got %T", msg)
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestPublish_DeliversToConnectedUser(t *testing.T) {
	manager := startManager()
	client := connect(t, manager, "u1")

	manager.Publish("u1", "notification:new", map[string]string{"id": "n1"})

	event := receive(t, client)
	assert.Equal(t, "notification:new", event.Event)
	assert.Equal(t, map[string]string{"id": "n1"}, event.Payload)
}

func TestPublish_OfflineUserIsNoop(t *testing.T) {
	manager := startManager()

	// Не должно ни паниковать, ни блокироваться
	manager.Publish("nobody", "notification:new", "payload")

	assert.False(t, manager.IsUserConnected("nobody"))
	assert.Zero(t, manager.GetClientCount())
}

func TestPublish_FansOutToAllSessions(t *testing.T) {
	manager := startManager()
	first := connect(t, manager, "u1")
	second := connect(t, manager, "u1")

	assert.Equal(t, 2, manager.GetClientCount())

	manager.Publish("u1", "notification:new", "payload")

	assert.Equal(t, "payload", receive(t, first).Payload)
	assert.Equal(t, "payload", receive(t, second).Payload)
}

func TestPublish_DoesNotCrossUsers(t *testing.T) {
	manager := startManager()
	target := connect(t, manager, "u1")
	other := connect(t, manager, "u2")

	manager.Publish("u1", "notification:new", "payload")

	assert.Equal(t, "payload", receive(t, target).Payload)

	select {
	case msg := <-other.Send:
		t.Fatalf("unexpected delivery to another user: %v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnregister_RemovesSession(t *testing.T) {
	manager := startManager()
	client := connect(t, manager, "u1")

	manager.unregister <- client

	assert.Eventually(t, func() bool {
		return !manager.IsUserConnected("u1")
	}, time.Second, 5*time.Millisecond)
	assert.Zero(t, manager.GetClientCount())
}

func TestUnregister_KeepsOtherSessionsOfSameUser(t *testing.T) {
	manager := startManager()
	first := connect(t, manager, "u1")
	second := connect(t, manager, "u1")

	manager.unregister <- first

	assert.Eventually(t, func() bool {
		return manager.GetClientCount() == 1
	}, time.Second, 5*time.Millisecond)
	assert.True(t, manager.IsUserConnected("u1"))

	manager.Publish("u1", "notification:new", "payload")
	assert.Equal(t, "payload", receive(t, second).Payload)
}
