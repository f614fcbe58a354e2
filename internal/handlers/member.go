package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"collab-service/internal/models"
	"collab-service/internal/repositories"
	"collab-service/internal/telemetry"
)

// MemberHandler manages workspace membership endpoints.
type MemberHandler struct {
	members repositories.MemberRepository
	audit   *telemetry.AuditEmitter
}

// NewMemberHandler builds a MemberHandler.
func NewMemberHandler(members repositories.MemberRepository, audit *telemetry.AuditEmitter) *MemberHandler {
	return &MemberHandler{members: members, audit: audit}
}

// Current returns the caller's own membership in the workspace.
func (h *MemberHandler) Current(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}

	member, ok := h.requireMember(c, workspaceID)
	if !ok {
		return
	}

	withUser, err := h.members.GetWithUser(c.Request.Context(), member.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load member"})
		return
	}
	c.JSON(http.StatusOK, withUser)
}

// List returns all members with their user info.
func (h *MemberHandler) List(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}

	if _, ok := h.requireMember(c, workspaceID); !ok {
		return
	}

	members, err := h.members.ListWithUsers(c.Request.Context(), workspaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load members"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// Get returns one member; the caller must share the workspace.
func (h *MemberHandler) Get(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "member_id")
	if !ok {
		return
	}

	if _, ok := h.requireMember(c, workspaceID); !ok {
		return
	}

	member, err := h.members.GetWithUser(c.Request.Context(), memberID)
	if err != nil || member.WorkspaceID != workspaceID {
		status := http.StatusInternalServerError
		if err == nil || errors.Is(err, repositories.ErrMemberNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "member not found"})
		return
	}
	c.JSON(http.StatusOK, member)
}

// UpdateRole changes a member's role; admin only.
func (h *MemberHandler) UpdateRole(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "member_id")
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role" binding:"required,oneof=admin member"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, ok := h.requireAdmin(c, workspaceID); !ok {
		return
	}
	if !h.memberInWorkspace(c, workspaceID, memberID) {
		return
	}

	if err := h.members.UpdateRole(c.Request.Context(), memberID, req.Role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": memberID})
}

// Remove deletes a member and everything they authored, children before
// parents; admin only.
func (h *MemberHandler) Remove(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "member_id")
	if !ok {
		return
	}

	if _, ok := h.requireAdmin(c, workspaceID); !ok {
		return
	}
	if !h.memberInWorkspace(c, workspaceID, memberID) {
		return
	}

	if err := h.members.RemoveCascade(c.Request.Context(), memberID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMemberNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not remove member"})
		return
	}

	userID := userIDFromContext(c)
	h.audit.Emit(c.Request.Context(), telemetry.LevelWarn, "member removed", requestIDFromContext(c), &userID)
	c.JSON(http.StatusOK, gin.H{"id": memberID})
}

func (h *MemberHandler) requireMember(c *gin.Context, workspaceID int64) (models.Member, bool) {
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

func (h *MemberHandler) requireAdmin(c *gin.Context, workspaceID int64) (models.Member, bool) {
	member, ok := h.requireMember(c, workspaceID)
	if !ok {
		return models.Member{}, false
	}
	if member.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return models.Member{}, false
	}
	return member, true
}

func (h *MemberHandler) memberInWorkspace(c *gin.Context, workspaceID, memberID int64) bool {
	target, err := h.members.Get(c.Request.Context(), memberID)
	if err != nil || target.WorkspaceID != workspaceID {
		status := http.StatusInternalServerError
		if err == nil || errors.Is(err, repositories.ErrMemberNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "member not found"})
		return false
	}
	return true
}
