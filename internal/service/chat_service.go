package service

import (
	"context"

	"discussly-be/internal/entity"
	"discussly-be/internal/pkg/logger"
	"discussly-be/internal/repository/memory"
	"discussly-be/internal/repository/specification"
	"discussly-be/internal/repository/unitofwork"
	ws "discussly-be/internal/websocket"

	"github.com/google/uuid"
)

// IChatService is the per-connection protocol coordinator. It ties the room
// registry, the lifecycle manager, persistence and the broadcaster together.
// Chat-path failures are logged and swallowed: the sender gets no ack, so an
// error must never abort the session.
type IChatService interface {
	// JoinUser registers the connection's identity for later events. It
	// does not join a discussion room.
	JoinUser(client *ws.Client, username, email string)

	// JoinDiscussion leaves any previously joined room, registers the
	// connection, and announces the member plus a fresh presence snapshot.
	JoinDiscussion(ctx context.Context, client *ws.Client, discussionID uuid.UUID, username, email string)

	LeaveDiscussion(ctx context.Context, client *ws.Client, discussionID uuid.UUID)

	// PresenceSnapshot broadcasts the current connected-user list of the
	// room to its members.
	PresenceSnapshot(discussionID uuid.UUID)

	SendMessage(ctx context.Context, client *ws.Client, discussionID uuid.UUID, body string)

	// Disconnect is the terminal event for a connection: an implicit leave
	// of whatever room it last joined.
	Disconnect(ctx context.Context, client *ws.Client)
}

type chatService struct {
	registry   *ws.RoomRegistry
	hub        *ws.Hub
	uowFactory unitofwork.RepositoryFactory
	lifecycle  ILifecycleService
	userCache  *memory.UserCache
	logger     logger.ILogger
}

func NewChatService(
	registry *ws.RoomRegistry,
	hub *ws.Hub,
	uowFactory unitofwork.RepositoryFactory,
	lifecycle ILifecycleService,
	userCache *memory.UserCache,
	log logger.ILogger,
) IChatService {
	return &chatService{
		registry:   registry,
		hub:        hub,
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
		userCache:  userCache,
		logger:     log,
	}
}

func (s *chatService) JoinUser(client *ws.Client, username, email string) {
	client.SetIdentity(username, email)
}

func (s *chatService) JoinDiscussion(ctx context.Context, client *ws.Client, discussionID uuid.UUID, username, email string) {
	client.SetIdentity(username, email)

	// A connection belongs to at most one room at a time.
	if prev, ok := client.Room(); ok && prev != discussionID {
		s.leaveRoom(client, prev)
	}

	name, mail := client.Identity()
	s.registry.Join(discussionID, client, name, mail)
	client.SetRoom(discussionID)

	s.hub.BroadcastExcept(discussionID, client, ws.NewMemberJoined(name))
	s.hub.Broadcast(discussionID, ws.NewPresenceSnapshot(s.registry.Snapshot(discussionID)))
}

// LeaveDiscussion is a no-op for a connection that never joined the room.
func (s *chatService) LeaveDiscussion(ctx context.Context, client *ws.Client, discussionID uuid.UUID) {
	if current, ok := client.Room(); !ok || current != discussionID {
		return
	}
	s.leaveRoom(client, discussionID)
	client.ClearRoom()
}

func (s *chatService) PresenceSnapshot(discussionID uuid.UUID) {
	s.hub.Broadcast(discussionID, ws.NewPresenceSnapshot(s.registry.Snapshot(discussionID)))
}

func (s *chatService) SendMessage(ctx context.Context, client *ws.Client, discussionID uuid.UUID, body string) {
	_, email := client.Identity()

	author, err := s.resolveAuthor(ctx, email)
	if err != nil || author == nil {
		s.logger.Error("ChatService", "Failed to resolve message author", map[string]interface{}{
			"error": err,
			"email": email,
		})
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	discussion, err := uow.DiscussionRepository().FindOne(ctx, specification.ByID{ID: discussionID})
	if err != nil || discussion == nil {
		s.logger.Error("ChatService", "Failed to load discussion for message", map[string]interface{}{
			"error":         err,
			"discussion_id": discussionID,
		})
		return
	}

	if discussion.Closed {
		s.logger.Warn("ChatService", "Dropping message to closed discussion", map[string]interface{}{
			"discussion_id": discussionID,
		})
		return
	}

	if err := s.lifecycle.Evaluate(ctx, discussion); err != nil {
		s.logger.Warn("ChatService", "Dropping message, discussion no longer open", map[string]interface{}{
			"error":         err.Error(),
			"discussion_id": discussionID,
		})
		return
	}

	msg := &entity.Message{
		DiscussionId: discussionID,
		UserId:       author.Id,
		Body:         body,
	}
	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		s.logger.Error("ChatService", "Failed to persist message", map[string]interface{}{
			"error":         err,
			"discussion_id": discussionID,
		})
		return
	}

	// Re-read for the server-assigned timestamp, the canonical value every
	// member sees.
	stored, err := uow.MessageRepository().FindOne(ctx, specification.ByID{ID: msg.Id})
	if err != nil || stored == nil {
		s.logger.Error("ChatService", "Failed to read back message", map[string]interface{}{
			"error":      err,
			"message_id": msg.Id,
		})
		return
	}

	s.hub.Broadcast(discussionID, ws.NewChatMessage(stored.CreatedAt, author.Username, stored.Body))
}

func (s *chatService) Disconnect(ctx context.Context, client *ws.Client) {
	if roomID, ok := client.Room(); ok {
		s.leaveRoom(client, roomID)
		client.ClearRoom()
	}
	client.CloseSend()
}

func (s *chatService) leaveRoom(client *ws.Client, roomID uuid.UUID) {
	s.registry.Leave(roomID, client)
	username, _ := client.Identity()
	s.hub.BroadcastExcept(roomID, client, ws.NewMemberLeft(username))
	s.hub.Broadcast(roomID, ws.NewPresenceSnapshot(s.registry.Snapshot(roomID)))
}

func (s *chatService) resolveAuthor(ctx context.Context, email string) (*entity.User, error) {
	if user, ok := s.userCache.Get(email); ok {
		return user, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if user != nil {
		s.userCache.Save(user)
	}
	return user, nil
}
