package websocket

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRegistryJoinIsIdempotentPerConnection(t *testing.T) {
	registry := NewRoomRegistry()
	roomID := uuid.New()
	client := NewClient(nil)

	registry.Join(roomID, client, "alice", "alice@example.com")
	registry.Join(roomID, client, "alice", "alice@example.com")

	snapshot := registry.Snapshot(roomID)
	assert.Equal(t, 1, snapshot.Count)
	assert.Len(t, registry.Clients(roomID), 1)
}

func TestRegistryRejoinUpdatesIdentityInPlace(t *testing.T) {
	registry := NewRoomRegistry()
	roomID := uuid.New()
	first := NewClient(nil)
	second := NewClient(nil)

	registry.Join(roomID, first, "alice", "alice@example.com")
	registry.Join(roomID, second, "bob", "bob@example.com")
	registry.Join(roomID, first, "alicia", "alice@example.com")

	snapshot := registry.Snapshot(roomID)
	assert.Equal(t, 2, snapshot.Count)
	// Position is preserved, only the entry contents change.
	assert.Equal(t, "alicia", snapshot.Users[0].Username)
	assert.Equal(t, "bob", snapshot.Users[1].Username)
}

func TestRegistryLeaveNonMemberIsNoop(t *testing.T) {
	registry := NewRoomRegistry()
	roomID := uuid.New()
	member := NewClient(nil)
	stranger := NewClient(nil)

	registry.Join(roomID, member, "alice", "alice@example.com")
	registry.Leave(roomID, stranger)
	registry.Leave(uuid.New(), member)

	assert.Equal(t, 1, registry.Snapshot(roomID).Count)
}

func TestRegistrySnapshotKeepsJoinOrder(t *testing.T) {
	registry := NewRoomRegistry()
	roomID := uuid.New()

	names := []string{"alice", "bob", "carol"}
	for _, name := range names {
		registry.Join(roomID, NewClient(nil), name, name+"@example.com")
	}

	snapshot := registry.Snapshot(roomID)
	assert.Equal(t, len(names), snapshot.Count)
	for i, name := range names {
		assert.Equal(t, name, snapshot.Users[i].Username)
	}
}

func TestRegistrySnapshotUnknownRoomIsEmpty(t *testing.T) {
	registry := NewRoomRegistry()

	snapshot := registry.Snapshot(uuid.New())
	assert.Equal(t, 0, snapshot.Count)
	assert.Empty(t, snapshot.Users)
}

func TestRegistryLeaveLastMemberDropsRoom(t *testing.T) {
	registry := NewRoomRegistry()
	roomID := uuid.New()
	client := NewClient(nil)

	registry.Join(roomID, client, "alice", "alice@example.com")
	registry.Leave(roomID, client)

	registry.mu.RLock()
	_, exists := registry.rooms[roomID]
	registry.mu.RUnlock()
	assert.False(t, exists)
}
