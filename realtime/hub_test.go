package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID string, rooms ...string) *Client {
	return &Client{
		ID:     "client-" + userID,
		UserID: userID,
		Rooms:  rooms,
		Send:   make(chan []byte, 8),
	}
}

func receive(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case data := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	default:
		t.Fatal("expected a buffered event")
		return Event{}
	}
}

func TestRegisterAndEmitToUserRoom(t *testing.T) {
	hub := NewHub()
	client := newTestClient("user-1", UserRoom("user-1"))
	hub.Register(client)

	hub.Emit(UserRoom("user-1"), Event{Name: EventNotificationNew, Data: "hello"})

	event := receive(t, client)
	assert.Equal(t, EventNotificationNew, event.Name)
	assert.Equal(t, "hello", event.Data)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEmitReachesEveryRoomMember(t *testing.T) {
	hub := NewHub()
	first := newTestClient("user-1", UserRoom("user-1"), WardRoom("ward-onco"))
	second := newTestClient("user-2", UserRoom("user-2"), WardRoom("ward-onco"))
	outsider := newTestClient("user-3", UserRoom("user-3"), WardRoom("ward-med"))

	hub.Register(first)
	hub.Register(second)
	hub.Register(outsider)

	hub.Emit(WardRoom("ward-onco"), Event{Name: EventOrderCreated})

	assert.Equal(t, EventOrderCreated, receive(t, first).Name)
	assert.Equal(t, EventOrderCreated, receive(t, second).Name)
	assert.Empty(t, outsider.Send)
}

func TestEmitToEmptyRoom(t *testing.T) {
	hub := NewHub()
	// No members; must not panic or block.
	hub.Emit(WardRoom("ward-onco"), Event{Name: EventOrderCreated})
	assert.Zero(t, hub.ClientCount())
}

func TestUnregisterLeavesRooms(t *testing.T) {
	hub := NewHub()
	client := newTestClient("user-1", UserRoom("user-1"), WardRoom("ward-onco"))
	hub.Register(client)
	require.Equal(t, 1, hub.RoomCount(WardRoom("ward-onco")))

	hub.Unregister(client)

	assert.Zero(t, hub.ClientCount())
	assert.Zero(t, hub.RoomCount(WardRoom("ward-onco")))

	// Send channel is closed on unregister.
	_, open := <-client.Send
	assert.False(t, open)

	// A second unregister of the same client is a no-op.
	hub.Unregister(client)
}

func TestEmitSkipsFullBuffers(t *testing.T) {
	hub := NewHub()
	slow := &Client{ID: "slow", UserID: "user-1", Rooms: []string{UserRoom("user-1")}, Send: make(chan []byte, 1)}
	hub.Register(slow)

	hub.Emit(UserRoom("user-1"), Event{Name: EventNotificationNew})
	hub.Emit(UserRoom("user-1"), Event{Name: EventNotificationNew})

	// The second emit is dropped rather than blocking delivery.
	assert.Len(t, slow.Send, 1)
}

func TestMultipleConnectionsForOneUser(t *testing.T) {
	hub := NewHub()
	tabOne := newTestClient("user-1", UserRoom("user-1"))
	tabTwo := &Client{ID: "client-user-1-b", UserID: "user-1", Rooms: []string{UserRoom("user-1")}, Send: make(chan []byte, 8)}

	hub.Register(tabOne)
	hub.Register(tabTwo)
	require.Equal(t, 2, hub.RoomCount(UserRoom("user-1")))

	hub.Emit(UserRoom("user-1"), Event{Name: EventNotificationNew})

	assert.Len(t, tabOne.Send, 1)
	assert.Len(t, tabTwo.Send, 1)
}
