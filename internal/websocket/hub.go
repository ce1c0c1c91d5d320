package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"discussly-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const relayChannel = "room_events"

// Hub fans typed events out to every connection currently registered in a
// room. Broadcast is a snapshot fan-out over the registry, not a durable
// subscription log. Delivery order per room is FIFO.
type Hub struct {
	registry *RoomRegistry

	// Per-room serialization point so that concurrent broadcasts to the
	// same room reach every member's send queue in the same order.
	roomMu sync.Mutex
	locks  map[uuid.UUID]*sync.Mutex

	// Redis connection for cross-instance relay, may be nil
	rdb *redis.Client

	// instanceID filters the relay echo of our own publications.
	instanceID uuid.UUID

	logger logger.ILogger
}

type relayPayload struct {
	Origin  uuid.UUID       `json:"origin"`
	RoomID  uuid.UUID       `json:"room_id"`
	Message json.RawMessage `json:"message"`
}

func NewHub(registry *RoomRegistry, rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		registry:   registry,
		locks:      make(map[uuid.UUID]*sync.Mutex),
		rdb:        rdb,
		instanceID: uuid.New(),
		logger:     log,
	}
}

func (h *Hub) roomLock(roomID uuid.UUID) *sync.Mutex {
	h.roomMu.Lock()
	defer h.roomMu.Unlock()
	lock, ok := h.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		h.locks[roomID] = lock
	}
	return lock
}

// Broadcast delivers event to every member of the room.
func (h *Hub) Broadcast(roomID uuid.UUID, event Event) {
	h.broadcast(roomID, nil, event)
}

// BroadcastExcept delivers event to every member of the room but the given
// connection. Used for member-joined/member-left, which the actor already
// knows about.
func (h *Hub) BroadcastExcept(roomID uuid.UUID, except *Client, event Event) {
	h.broadcast(roomID, except, event)
}

func (h *Hub) broadcast(roomID uuid.UUID, except *Client, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal event", map[string]interface{}{"error": err, "kind": event.Kind})
		return
	}

	lock := h.roomLock(roomID)
	lock.Lock()
	h.deliverLocal(roomID, except, data)
	lock.Unlock()

	if h.rdb != nil {
		payload, _ := json.Marshal(relayPayload{Origin: h.instanceID, RoomID: roomID, Message: data})
		h.rdb.Publish(context.Background(), relayChannel, payload)
	}
}

func (h *Hub) deliverLocal(roomID uuid.UUID, except *Client, data []byte) {
	for _, client := range h.registry.Clients(roomID) {
		if client == except {
			continue
		}
		select {
		case client.Send <- data:
		default:
			// A stuck member never blocks delivery to the rest.
			h.logger.Warn("Hub", "Client send buffer full, dropping member", map[string]interface{}{"client_id": client.ID})
			h.registry.Leave(roomID, client)
			client.CloseSend()
		}
	}
}

// Run subscribes to the cross-instance relay channel and mirrors events
// published by other instances into local rooms. Blocks until the context
// is cancelled; no-op when Redis is not configured.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		return
	}

	pubsub := h.rdb.Subscribe(ctx, relayChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload relayPayload
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Relay message parse error", map[string]interface{}{"error": err})
				continue
			}
			if payload.Origin == h.instanceID {
				continue
			}

			lock := h.roomLock(payload.RoomID)
			lock.Lock()
			h.deliverLocal(payload.RoomID, nil, payload.Message)
			lock.Unlock()
		}
	}
}
