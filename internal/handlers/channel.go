package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"collab-service/internal/models"
	"collab-service/internal/repositories"
)

// ChannelHandler manages channel endpoints.
type ChannelHandler struct {
	channels repositories.ChannelRepository
	members  repositories.MemberRepository
}

// NewChannelHandler builds a ChannelHandler.
func NewChannelHandler(channels repositories.ChannelRepository, members repositories.MemberRepository) *ChannelHandler {
	return &ChannelHandler{channels: channels, members: members}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func slugChannelName(name string) string {
	return strings.ToLower(whitespaceRe.ReplaceAllString(name, "-"))
}

// Create adds a channel to the workspace. Names are slugged lowercase.
func (h *ChannelHandler) Create(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, ok := h.requireMember(c, workspaceID); !ok {
		return
	}

	ch, err := h.channels.Create(c.Request.Context(), workspaceID, slugChannelName(req.Name))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create channel"})
		return
	}
	c.JSON(http.StatusCreated, ch)
}

// List returns the workspace's channels.
func (h *ChannelHandler) List(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}

	if _, ok := h.requireMember(c, workspaceID); !ok {
		return
	}

	channels, err := h.channels.ListByWorkspace(c.Request.Context(), workspaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load channels"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// Get returns one channel.
func (h *ChannelHandler) Get(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}
	channelID, ok := pathID(c, "channel_id")
	if !ok {
		return
	}

	if _, ok := h.requireMember(c, workspaceID); !ok {
		return
	}

	ch, err := h.channels.Get(c.Request.Context(), channelID)
	if err != nil || ch.WorkspaceID != workspaceID {
		status := http.StatusInternalServerError
		if err == nil || errors.Is(err, repositories.ErrChannelNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "channel not found"})
		return
	}
	c.JSON(http.StatusOK, ch)
}

// Update renames a channel.
func (h *ChannelHandler) Update(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}
	channelID, ok := pathID(c, "channel_id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, ok := h.requireMember(c, workspaceID); !ok {
		return
	}
	if !h.channelInWorkspace(c, workspaceID, channelID) {
		return
	}

	if err := h.channels.UpdateName(c.Request.Context(), channelID, slugChannelName(req.Name)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update channel"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": channelID})
}

// Delete removes a channel, its messages and their reactions; admin only.
func (h *ChannelHandler) Delete(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}
	channelID, ok := pathID(c, "channel_id")
	if !ok {
		return
	}

	member, ok := h.requireMember(c, workspaceID)
	if !ok {
		return
	}
	if member.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return
	}
	if !h.channelInWorkspace(c, workspaceID, channelID) {
		return
	}

	if err := h.channels.DeleteCascade(c.Request.Context(), channelID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrChannelNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not delete channel"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": channelID})
}

func (h *ChannelHandler) requireMember(c *gin.Context, workspaceID int64) (models.Member, bool) {
	member, err := h.members.GetByWorkspaceAndUser(c.Request.Context(), workspaceID, userIDFromContext(c))
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not a workspace member"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		}
		return models.Member{}, false
	}
	return member, true
}

func (h *ChannelHandler) channelInWorkspace(c *gin.Context, workspaceID, channelID int64) bool {
	ch, err := h.channels.Get(c.Request.Context(), channelID)
	if err != nil || ch.WorkspaceID != workspaceID {
		status := http.StatusInternalServerError
		if err == nil || errors.Is(err, repositories.ErrChannelNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "channel not found"})
		return false
	}
	return true
}
