package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"discussly-be/internal/entity"
	"discussly-be/internal/pkg/clock"
	"discussly-be/internal/repository/memory"
	ws "discussly-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatEnv struct {
	uow      *fakeUnitOfWork
	registry *ws.RoomRegistry
	hub      *ws.Hub
	clk      *clock.Fixed
	service  IChatService
}

func newChatEnv(t *testing.T) *chatEnv {
	t.Helper()
	uow := newFakeUnitOfWork(testBase)
	factory := &fakeFactory{uow: uow}
	clk := &clock.Fixed{Instant: testBase}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	lifecycle := NewLifecycleService(factory, clk, pubSub, nopLogger{})

	registry := ws.NewRoomRegistry()
	hub := ws.NewHub(registry, nil, nopLogger{})

	return &chatEnv{
		uow:      uow,
		registry: registry,
		hub:      hub,
		clk:      clk,
		service:  NewChatService(registry, hub, factory, lifecycle, memory.NewUserCache(), nopLogger{}),
	}
}

type wsFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func nextFrame(t *testing.T, client *ws.Client) wsFrame {
	t.Helper()
	select {
	case raw, ok := <-client.Send:
		require.True(t, ok, "send channel closed")
		var frame wsFrame
		require.NoError(t, json.Unmarshal(raw, &frame))
		return frame
	default:
		t.Fatal("no frame queued")
		return wsFrame{}
	}
}

func drain(client *ws.Client) {
	for {
		select {
		case <-client.Send:
		default:
			return
		}
	}
}

func TestJoinDiscussionAnnouncesToOthersOnly(t *testing.T) {
	env := newChatEnv(t)
	roomID := uuid.New()
	ctx := context.Background()

	alice := ws.NewClient(nil)
	env.service.JoinDiscussion(ctx, alice, roomID, "alice", "alice@example.com")
	drain(alice)

	bob := ws.NewClient(nil)
	env.service.JoinDiscussion(ctx, bob, roomID, "bob", "bob@example.com")

	// Alice sees the announcement and the refreshed roster.
	joined := nextFrame(t, alice)
	assert.Equal(t, string(ws.EventMemberJoined), joined.Event)
	var member ws.MemberPayload
	require.NoError(t, json.Unmarshal(joined.Data, &member))
	assert.Equal(t, "bob", member.Username)

	snapshot := nextFrame(t, alice)
	assert.Equal(t, string(ws.EventPresenceSnapshot), snapshot.Event)
	var presence ws.PresenceSnapshot
	require.NoError(t, json.Unmarshal(snapshot.Data, &presence))
	assert.Equal(t, 2, presence.Count)

	// Bob gets the roster but not his own join announcement.
	bobFrame := nextFrame(t, bob)
	assert.Equal(t, string(ws.EventPresenceSnapshot), bobFrame.Event)
	assert.Empty(t, bob.Send)
}

func TestJoiningSecondRoomLeavesFirst(t *testing.T) {
	env := newChatEnv(t)
	room1 := uuid.New()
	room2 := uuid.New()
	ctx := context.Background()

	alice := ws.NewClient(nil)
	env.service.JoinDiscussion(ctx, alice, room1, "alice", "alice@example.com")

	bob := ws.NewClient(nil)
	env.service.JoinDiscussion(ctx, bob, room1, "bob", "bob@example.com")
	drain(alice)
	drain(bob)

	env.service.JoinDiscussion(ctx, bob, room2, "bob", "bob@example.com")

	left := nextFrame(t, alice)
	assert.Equal(t, string(ws.EventMemberLeft), left.Event)

	snapshot := nextFrame(t, alice)
	var presence ws.PresenceSnapshot
	require.NoError(t, json.Unmarshal(snapshot.Data, &presence))
	assert.Equal(t, 1, presence.Count)

	assert.Len(t, env.registry.Clients(room1), 1)
	assert.Len(t, env.registry.Clients(room2), 1)

	current, ok := bob.Room()
	require.True(t, ok)
	assert.Equal(t, room2, current)
}

func TestSendMessagePersistsAndBroadcasts(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	require.NoError(t, env.uow.users.Create(ctx, &entity.User{Username: "bob", Email: "bob@example.com"}))
	discussion := env.uow.discussions.add(&entity.Discussion{Name: "sprint-sync"})

	alice := ws.NewClient(nil)
	env.service.JoinDiscussion(ctx, alice, discussion.Id, "alice", "alice@example.com")
	bob := ws.NewClient(nil)
	env.service.JoinDiscussion(ctx, bob, discussion.Id, "bob", "bob@example.com")
	drain(alice)
	drain(bob)

	env.service.SendMessage(ctx, bob, discussion.Id, "standup in 5")

	// The sender receives their own message, same as everyone else.
	for _, client := range []*ws.Client{alice, bob} {
		frame := nextFrame(t, client)
		assert.Equal(t, string(ws.EventChatMessage), frame.Event)

		var payload ws.ChatMessagePayload
		require.NoError(t, json.Unmarshal(frame.Data, &payload))
		assert.Equal(t, "bob", payload.Username)
		assert.Equal(t, "standup in 5", payload.Body)
		assert.True(t, payload.Timestamp.Equal(testBase))
	}

	count, err := env.uow.messages.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSendMessageToClosedDiscussionIsDropped(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	require.NoError(t, env.uow.users.Create(ctx, &entity.User{Username: "bob", Email: "bob@example.com"}))
	discussion := env.uow.discussions.add(&entity.Discussion{Name: "done", Closed: true})

	bob := ws.NewClient(nil)
	env.service.JoinDiscussion(ctx, bob, discussion.Id, "bob", "bob@example.com")
	drain(bob)

	env.service.SendMessage(ctx, bob, discussion.Id, "anyone here?")

	assert.Empty(t, bob.Send)
	count, _ := env.uow.messages.Count(ctx)
	assert.EqualValues(t, 0, count)
}

func TestSendMessageClosesExpiredDiscussion(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	require.NoError(t, env.uow.users.Create(ctx, &entity.User{Username: "bob", Email: "bob@example.com"}))
	deadline := testBase.Add(-time.Minute)
	discussion := env.uow.discussions.add(&entity.Discussion{
		Name:        "timed-out",
		IsLimited:   true,
		LimitedTime: &deadline,
	})

	bob := ws.NewClient(nil)
	env.service.JoinDiscussion(ctx, bob, discussion.Id, "bob", "bob@example.com")
	drain(bob)

	env.service.SendMessage(ctx, bob, discussion.Id, "too late")

	assert.True(t, discussion.Closed)
	count, _ := env.uow.messages.Count(ctx)
	assert.EqualValues(t, 0, count)
}

func TestDisconnectIsImplicitLeave(t *testing.T) {
	env := newChatEnv(t)
	roomID := uuid.New()
	ctx := context.Background()

	alice := ws.NewClient(nil)
	env.service.JoinDiscussion(ctx, alice, roomID, "alice", "alice@example.com")
	bob := ws.NewClient(nil)
	env.service.JoinDiscussion(ctx, bob, roomID, "bob", "bob@example.com")
	drain(alice)

	env.service.Disconnect(ctx, bob)

	left := nextFrame(t, alice)
	assert.Equal(t, string(ws.EventMemberLeft), left.Event)
	var member ws.MemberPayload
	require.NoError(t, json.Unmarshal(left.Data, &member))
	assert.Equal(t, "bob", member.Username)

	assert.Len(t, env.registry.Clients(roomID), 1)

	_, ok := bob.Room()
	assert.False(t, ok)
}

func TestLeaveDiscussionNotJoinedIsNoop(t *testing.T) {
	env := newChatEnv(t)
	roomID := uuid.New()
	ctx := context.Background()

	alice := ws.NewClient(nil)
	env.service.JoinDiscussion(ctx, alice, roomID, "alice", "alice@example.com")
	drain(alice)

	stranger := ws.NewClient(nil)
	stranger.SetIdentity("mallory", "mallory@example.com")
	env.service.LeaveDiscussion(ctx, stranger, roomID)

	// Nothing happened: no roster change, no events for the members.
	assert.Len(t, env.registry.Clients(roomID), 1)
	assert.Empty(t, alice.Send)
}
