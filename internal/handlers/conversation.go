package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"collab-service/internal/repositories"
)

// ConversationHandler manages direct-message conversations.
type ConversationHandler struct {
	conversations repositories.ConversationRepository
	members       repositories.MemberRepository
}

// NewConversationHandler builds a ConversationHandler.
func NewConversationHandler(conversations repositories.ConversationRepository, members repositories.MemberRepository) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, members: members}
}

// CreateOrGet returns the conversation between the caller and another
// member, creating it when absent. Both members must belong to the workspace.
func (h *ConversationHandler) CreateOrGet(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}

	var req struct {
		MemberID int64 `json:"member_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := h.members.GetByWorkspaceAndUser(c.Request.Context(), workspaceID, userIDFromContext(c))
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		}
		return
	}

	other, err := h.members.Get(c.Request.Context(), req.MemberID)
	if err != nil || other.WorkspaceID != workspaceID {
		status := http.StatusInternalServerError
		if err == nil || errors.Is(err, repositories.ErrMemberNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "member not found"})
		return
	}

	conv, err := h.conversations.CreateOrGet(c.Request.Context(), workspaceID, current.ID, other.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create conversation"})
		return
	}
	c.JSON(http.StatusOK, conv)
}
