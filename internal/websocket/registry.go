package websocket

import (
	"sync"

	"github.com/google/uuid"
)

// memberEntry is owned exclusively by the registry for the lifetime of the
// connection. Created on join, destroyed on leave or disconnect.
type memberEntry struct {
	client   *Client
	username string
	email    string
}

// RoomRegistry maps a room id to the set of currently connected members.
// Pure in-memory index, no I/O. Entries keep join order.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID][]*memberEntry
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[uuid.UUID][]*memberEntry),
	}
}

// Join registers a member. Idempotent per connection: re-joining the same
// room with the same connection replaces the prior entry in place.
func (r *RoomRegistry) Join(roomID uuid.UUID, client *Client, username, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := &memberEntry{client: client, username: username, email: email}
	for i, e := range r.rooms[roomID] {
		if e.client == client {
			r.rooms[roomID][i] = entry
			return
		}
	}
	r.rooms[roomID] = append(r.rooms[roomID], entry)
}

// Leave removes the entry. Removing a non-member is a no-op.
func (r *RoomRegistry) Leave(roomID uuid.UUID, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.rooms[roomID]
	for i, e := range entries {
		if e.client == client {
			r.rooms[roomID] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(r.rooms[roomID]) == 0 {
		delete(r.rooms, roomID)
	}
}

// Clients returns the connections registered in the room at call time.
func (r *RoomRegistry) Clients(roomID uuid.UUID) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.rooms[roomID]
	clients := make([]*Client, len(entries))
	for i, e := range entries {
		clients[i] = e.client
	}
	return clients
}

// Snapshot derives the connected-user list for a room, computed fresh on
// every call. A room with no entry yields an empty snapshot, never an error.
func (r *RoomRegistry) Snapshot(roomID uuid.UUID) PresenceSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.rooms[roomID]
	users := make([]PresenceUser, len(entries))
	for i, e := range entries {
		users[i] = PresenceUser{Username: e.username, Email: e.email}
	}
	return PresenceSnapshot{Users: users, Count: len(users)}
}
