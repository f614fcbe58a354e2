package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"collab-service/internal/repositories"
)

// ReactionHandler manages reaction toggling.
type ReactionHandler struct {
	reactions repositories.ReactionRepository
	messages  repositories.MessageRepository
	members   repositories.MemberRepository
}

// NewReactionHandler builds a ReactionHandler.
func NewReactionHandler(reactions repositories.ReactionRepository, messages repositories.MessageRepository, members repositories.MemberRepository) *ReactionHandler {
	return &ReactionHandler{reactions: reactions, messages: messages, members: members}
}

// Toggle adds the (message, member, value) reaction or removes it when it
// already exists. Toggling twice restores the original aggregate state.
func (h *ReactionHandler) Toggle(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}
	messageID, ok := pathID(c, "message_id")
	if !ok {
		return
	}

	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messages.Get(c.Request.Context(), messageID)
	if err != nil || msg.WorkspaceID != workspaceID {
		status := http.StatusInternalServerError
		if err == nil || errors.Is(err, repositories.ErrMessageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "message not found"})
		return
	}

	member, err := h.members.GetByWorkspaceAndUser(c.Request.Context(), msg.WorkspaceID, userIDFromContext(c))
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a workspace member"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		}
		return
	}

	added, err := h.reactions.Toggle(c.Request.Context(), msg.WorkspaceID, msg.ID, member.ID, req.Value)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not toggle reaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message_id": msg.ID, "value": req.Value, "added": added})
}
