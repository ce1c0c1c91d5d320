package handler

import (
	"context"
	"encoding/json"
	"strings"

	"discussly-be/internal/pkg/logger"
	"discussly-be/internal/pkg/serverutils"
	"discussly-be/internal/service"
	ws "discussly-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Inbound event names, as sent by the client.
const (
	eventJoinUser        = "join user"
	eventJoinDiscussion  = "join discussion"
	eventLeaveDiscussion = "leave discussion"
	eventConnectedUsers  = "connected users"
	eventChatMessage     = "chat message"
)

type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinUserData struct {
	Username string `json:"username"`
}

type joinDiscussionData struct {
	DiscussionId uuid.UUID `json:"discussion_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
}

type roomData struct {
	DiscussionId uuid.UUID `json:"discussion_id"`
}

type chatMessageData struct {
	DiscussionId uuid.UUID `json:"discussion_id"`
	Message      string    `json:"message"`
}

// ChatHandler owns the websocket endpoint: handshake, per-connection read
// loop, and frame dispatch into the chat service.
type ChatHandler struct {
	chatService service.IChatService
	logger      logger.ILogger
}

func NewChatHandler(chatService service.IChatService, log logger.ILogger) *ChatHandler {
	return &ChatHandler{chatService: chatService, logger: log}
}

func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.upgrade, fiberws.New(h.serve))
}

// upgrade authenticates the handshake before the protocol switch. The token
// comes from ?token= or, failing that, the Authorization header.
func (h *ChatHandler) upgrade(ctx *fiber.Ctx) error {
	if !fiberws.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	token := ctx.Query("token")
	if token == "" {
		token = strings.TrimPrefix(ctx.Get("Authorization"), "Bearer ")
	}

	claims, err := serverutils.ParseUserClaims(token)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	ctx.Locals("email", claims.Email)
	ctx.Locals("username", claims.Username)
	return ctx.Next()
}

func (h *ChatHandler) serve(conn *fiberws.Conn) {
	username, _ := conn.Locals("username").(string)
	email, _ := conn.Locals("email").(string)

	client := ws.NewClient(conn)
	client.SetIdentity(username, email)

	ctx := context.Background()
	defer h.chatService.Disconnect(ctx, client)

	go client.WritePump()

	client.PrepareRead()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if fiberws.IsUnexpectedCloseError(err, fiberws.CloseGoingAway, fiberws.CloseAbnormalClosure) {
				h.logger.Warn("ChatHandler", "Connection closed unexpectedly", map[string]interface{}{
					"error":     err.Error(),
					"client_id": client.ID,
				})
			}
			return
		}
		h.dispatch(ctx, client, raw)
	}
}

func (h *ChatHandler) dispatch(ctx context.Context, client *ws.Client, raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		h.logger.Warn("ChatHandler", "Dropping malformed frame", map[string]interface{}{
			"error":     err.Error(),
			"client_id": client.ID,
		})
		return
	}

	switch frame.Event {
	case eventJoinUser:
		var data joinUserData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return
		}
		h.chatService.JoinUser(client, data.Username, "")

	case eventJoinDiscussion:
		var data joinDiscussionData
		if err := json.Unmarshal(frame.Data, &data); err != nil || data.DiscussionId == uuid.Nil {
			return
		}
		h.chatService.JoinDiscussion(ctx, client, data.DiscussionId, data.Username, data.Email)

	case eventLeaveDiscussion:
		var data roomData
		if err := json.Unmarshal(frame.Data, &data); err != nil || data.DiscussionId == uuid.Nil {
			return
		}
		h.chatService.LeaveDiscussion(ctx, client, data.DiscussionId)

	case eventConnectedUsers:
		var data roomData
		if err := json.Unmarshal(frame.Data, &data); err != nil || data.DiscussionId == uuid.Nil {
			return
		}
		h.chatService.PresenceSnapshot(data.DiscussionId)

	case eventChatMessage:
		var data chatMessageData
		if err := json.Unmarshal(frame.Data, &data); err != nil || data.DiscussionId == uuid.Nil || data.Message == "" {
			return
		}
		h.chatService.SendMessage(ctx, client, data.DiscussionId, data.Message)

	default:
		h.logger.Warn("ChatHandler", "Unknown event", map[string]interface{}{
			"event":     frame.Event,
			"client_id": client.ID,
		})
	}
}
