package websocket

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type receivedEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func recvEvent(t *testing.T, c *Client) receivedEvent {
	t.Helper()
	select {
	case raw := <-c.Send:
		var ev receivedEvent
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	default:
		t.Fatal("no event queued")
		return receivedEvent{}
	}
}

func TestHubBroadcastReachesEveryMember(t *testing.T) {
	registry := NewRoomRegistry()
	hub := NewHub(registry, nil, nopLogger{})
	roomID := uuid.New()

	alice := NewClient(nil)
	bob := NewClient(nil)
	registry.Join(roomID, alice, "alice", "alice@example.com")
	registry.Join(roomID, bob, "bob", "bob@example.com")

	hub.Broadcast(roomID, NewMemberJoined("carol"))

	for _, c := range []*Client{alice, bob} {
		ev := recvEvent(t, c)
		assert.Equal(t, string(EventMemberJoined), ev.Event)
	}
}

func TestHubBroadcastExceptSkipsActor(t *testing.T) {
	registry := NewRoomRegistry()
	hub := NewHub(registry, nil, nopLogger{})
	roomID := uuid.New()

	actor := NewClient(nil)
	other := NewClient(nil)
	registry.Join(roomID, actor, "alice", "alice@example.com")
	registry.Join(roomID, other, "bob", "bob@example.com")

	hub.BroadcastExcept(roomID, actor, NewMemberLeft("alice"))

	assert.Empty(t, actor.Send)
	ev := recvEvent(t, other)
	assert.Equal(t, string(EventMemberLeft), ev.Event)
}

func TestHubBroadcastToUnknownRoomIsNoop(t *testing.T) {
	registry := NewRoomRegistry()
	hub := NewHub(registry, nil, nopLogger{})

	// Must not panic or register anything.
	hub.Broadcast(uuid.New(), NewMemberJoined("ghost"))
}

func TestHubDeliveryOrderPerRoomIsFIFO(t *testing.T) {
	registry := NewRoomRegistry()
	hub := NewHub(registry, nil, nopLogger{})
	roomID := uuid.New()

	member := NewClient(nil)
	registry.Join(roomID, member, "alice", "alice@example.com")

	const n = 20
	for i := 0; i < n; i++ {
		hub.Broadcast(roomID, NewMemberJoined(fmt.Sprintf("user-%d", i)))
	}

	for i := 0; i < n; i++ {
		ev := recvEvent(t, member)
		var payload MemberPayload
		require.NoError(t, json.Unmarshal(ev.Data, &payload))
		assert.Equal(t, fmt.Sprintf("user-%d", i), payload.Username)
	}
}

func TestHubDropsMemberWithFullBuffer(t *testing.T) {
	registry := NewRoomRegistry()
	hub := NewHub(registry, nil, nopLogger{})
	roomID := uuid.New()

	stuck := &Client{ID: uuid.New(), Send: make(chan []byte, 1)}
	healthy := NewClient(nil)
	registry.Join(roomID, stuck, "stuck", "stuck@example.com")
	registry.Join(roomID, healthy, "bob", "bob@example.com")

	stuck.Send <- []byte("backlog")

	hub.Broadcast(roomID, NewMemberJoined("carol"))

	// The stuck member is evicted, everyone else still got the event.
	assert.Len(t, registry.Clients(roomID), 1)
	ev := recvEvent(t, healthy)
	assert.Equal(t, string(EventMemberJoined), ev.Event)

	// Its send channel is closed after the backlog drains.
	<-stuck.Send
	_, open := <-stuck.Send
	assert.False(t, open)
}
