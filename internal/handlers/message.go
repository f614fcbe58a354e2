package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"collab-service/internal/feed"
	"collab-service/internal/models"
	"collab-service/internal/observability"
	"collab-service/internal/repositories"
)

// MessageHandler manages message endpoints on top of the feed pipeline.
type MessageHandler struct {
	feed     *feed.Service
	messages repositories.MessageRepository
	members  repositories.MemberRepository
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(feedSvc *feed.Service, messages repositories.MessageRepository, members repositories.MemberRepository) *MessageHandler {
	return &MessageHandler{
		feed:     feedSvc,
		messages: messages,
		members:  members,
	}
}

// Create posts a message into a channel, a conversation, or a thread.
func (h *MessageHandler) Create(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}

	var req struct {
		Body            string  `json:"body" binding:"required"`
		ImageURL        *string `json:"image_url"`
		ChannelID       *int64  `json:"channel_id"`
		ConversationID  *int64  `json:"conversation_id"`
		ParentMessageID *int64  `json:"parent_message_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ChannelID == nil && req.ConversationID == nil && req.ParentMessageID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message scope required"})
		return
	}
	if req.ChannelID != nil && req.ConversationID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel_id and conversation_id are exclusive"})
		return
	}

	params := feed.Params{
		ChannelID:       req.ChannelID,
		ConversationID:  req.ConversationID,
		ParentMessageID: req.ParentMessageID,
	}
	// Thread replies store the scope the thread view filters on: the
	// parent id, plus the conversation inherited from the parent for DMs.
	if req.ParentMessageID != nil {
		params.ChannelID = nil
		params.ConversationID = nil
	}

	userID := userIDFromContext(c)
	scope, err := h.feed.ResolveScope(c.Request.Context(), workspaceID, userID, params)
	if err != nil {
		respondError(c, err, "failed to resolve message scope")
		return
	}

	msg, err := h.messages.Create(c.Request.Context(), models.Message{
		WorkspaceID:     workspaceID,
		MemberID:        scope.MemberID,
		ChannelID:       scope.ChannelID,
		ConversationID:  scope.ConversationID,
		ParentMessageID: scope.ParentMessageID,
		Body:            req.Body,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	observability.PublishEvent(c.Request.Context(), "message.created", observability.EventEnvelope{
		EventType:  "message",
		EventName:  "created",
		OccurredAt: time.Now().UTC(),
		Payload:    msg,
	}, observability.BuildHeaders(requestIDFromContext(c), ""))

	c.JSON(http.StatusCreated, msg)
}

// List returns a page of the message feed.
func (h *MessageHandler) List(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}
	channelID, ok := queryID(c, "channel_id")
	if !ok {
		return
	}
	conversationID, ok := queryID(c, "conversation_id")
	if !ok {
		return
	}
	parentMessageID, ok := queryID(c, "parent_message_id")
	if !ok {
		return
	}
	cursor, ok := queryID(c, "cursor")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	page, err := h.feed.List(c.Request.Context(), workspaceID, userIDFromContext(c), feed.Params{
		ChannelID:       channelID,
		ConversationID:  conversationID,
		ParentMessageID: parentMessageID,
		Cursor:          cursor,
		Limit:           limit,
	})
	if err != nil {
		respondError(c, err, "failed to load messages")
		return
	}

	observability.ObserveFeedPage(len(page.Messages))
	c.JSON(http.StatusOK, page)
}

// Get returns one message with its reaction rollup.
func (h *MessageHandler) Get(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}
	messageID, ok := pathID(c, "message_id")
	if !ok {
		return
	}

	view, err := h.feed.GetMessage(c.Request.Context(), workspaceID, messageID, userIDFromContext(c))
	if err != nil {
		respondError(c, err, "failed to load message")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Update edits the body text; only the author may edit.
func (h *MessageHandler) Update(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}
	messageID, ok := pathID(c, "message_id")
	if !ok {
		return
	}

	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, ok := h.authorizeAuthor(c, workspaceID, messageID)
	if !ok {
		return
	}

	updated, err := h.messages.UpdateBody(c.Request.Context(), msg.ID, req.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update message"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a message and its reactions transactionally; only the
// author may delete.
func (h *MessageHandler) Delete(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}
	messageID, ok := pathID(c, "message_id")
	if !ok {
		return
	}

	msg, ok := h.authorizeAuthor(c, workspaceID, messageID)
	if !ok {
		return
	}

	if err := h.messages.DeleteWithReactions(c.Request.Context(), msg.ID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMessageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not delete message"})
		return
	}

	observability.PublishEvent(c.Request.Context(), "message.deleted", observability.EventEnvelope{
		EventType:  "message",
		EventName:  "deleted",
		OccurredAt: time.Now().UTC(),
		Payload:    gin.H{"id": msg.ID, "workspace_id": msg.WorkspaceID},
	}, observability.BuildHeaders(requestIDFromContext(c), ""))

	c.JSON(http.StatusOK, gin.H{"id": msg.ID})
}

// authorizeAuthor loads the message and verifies the caller is a workspace
// member and the message author.
func (h *MessageHandler) authorizeAuthor(c *gin.Context, workspaceID, messageID int64) (models.Message, bool) {
	member, err := h.members.GetByWorkspaceAndUser(c.Request.Context(), workspaceID, userIDFromContext(c))
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not a workspace member"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		}
		return models.Message{}, false
	}

	msg, err := h.messages.Get(c.Request.Context(), messageID)
	if err != nil || msg.WorkspaceID != workspaceID {
		status := http.StatusInternalServerError
		if err == nil || errors.Is(err, repositories.ErrMessageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "message not found"})
		return models.Message{}, false
	}

	if msg.MemberID != member.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author may modify a message"})
		return models.Message{}, false
	}
	return msg, true
}
