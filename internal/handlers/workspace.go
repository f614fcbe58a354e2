package handlers

import (
	"errors"
	"math/rand"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"collab-service/internal/models"
	"collab-service/internal/repositories"
	"collab-service/internal/telemetry"
)

// WorkspaceHandler manages workspace endpoints.
type WorkspaceHandler struct {
	workspaces repositories.WorkspaceRepository
	members    repositories.MemberRepository
	audit      *telemetry.AuditEmitter
}

// NewWorkspaceHandler builds a WorkspaceHandler.
func NewWorkspaceHandler(workspaces repositories.WorkspaceRepository, members repositories.MemberRepository, audit *telemetry.AuditEmitter) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces, members: members, audit: audit}
}

const joinCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func generateJoinCode() string {
	var sb strings.Builder
	for i := 0; i < 6; i++ {
		sb.WriteByte(joinCodeAlphabet[rand.Intn(len(joinCodeAlphabet))])
	}
	return strings.ToUpper(sb.String())
}

// Create makes a workspace; the creator becomes its admin member and a
// default general channel is created alongside.
func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := userIDFromContext(c)
	ws, err := h.workspaces.Create(c.Request.Context(), req.Name, userID, generateJoinCode())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create workspace"})
		return
	}

	h.audit.Emit(c.Request.Context(), telemetry.LevelInfo, "workspace created", requestIDFromContext(c), &userID)
	c.JSON(http.StatusCreated, ws)
}

// List returns the workspaces the caller belongs to.
func (h *WorkspaceHandler) List(c *gin.Context) {
	workspaces, err := h.workspaces.ListForUser(c.Request.Context(), userIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load workspaces"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": workspaces})
}

// Get returns a workspace to one of its members.
func (h *WorkspaceHandler) Get(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}

	if _, ok := h.requireMember(c, workspaceID); !ok {
		return
	}

	ws, err := h.workspaces.Get(c.Request.Context(), workspaceID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrWorkspaceNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "workspace not found"})
		return
	}
	c.JSON(http.StatusOK, ws)
}

// Info returns the public name/isMember view, also for non-members.
func (h *WorkspaceHandler) Info(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}

	ws, err := h.workspaces.Get(c.Request.Context(), workspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrWorkspaceNotFound) {
			c.JSON(http.StatusOK, models.WorkspaceInfo{Name: nil, IsMember: false})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load workspace"})
		return
	}

	_, err = h.members.GetByWorkspaceAndUser(c.Request.Context(), workspaceID, userIDFromContext(c))
	isMember := err == nil
	c.JSON(http.StatusOK, models.WorkspaceInfo{Name: &ws.Name, IsMember: isMember})
}

// Update renames a workspace; admin only.
func (h *WorkspaceHandler) Update(c *gin.Context) {
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

	if _, ok := h.requireAdmin(c, workspaceID); !ok {
		return
	}

	if err := h.workspaces.UpdateName(c.Request.Context(), workspaceID, req.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update workspace"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": workspaceID})
}

// NewJoinCode regenerates the invite code; admin only.
func (h *WorkspaceHandler) NewJoinCode(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}

	if _, ok := h.requireAdmin(c, workspaceID); !ok {
		return
	}

	if err := h.workspaces.UpdateJoinCode(c.Request.Context(), workspaceID, generateJoinCode()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update join code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": workspaceID})
}

// Join adds the caller as a regular member when the join code matches.
func (h *WorkspaceHandler) Join(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}

	var req struct {
		JoinCode string `json:"join_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ws, err := h.workspaces.Get(c.Request.Context(), workspaceID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrWorkspaceNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "workspace not found"})
		return
	}
	if ws.JoinCode != strings.ToUpper(req.JoinCode) {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid join code"})
		return
	}

	userID := userIDFromContext(c)
	if _, err := h.members.GetByWorkspaceAndUser(c.Request.Context(), workspaceID, userID); err == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "already joined"})
		return
	} else if !errors.Is(err, repositories.ErrMemberNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return
	}

	member, err := h.members.Create(c.Request.Context(), workspaceID, userID, models.RoleMember)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not join workspace"})
		return
	}
	c.JSON(http.StatusOK, member)
}

// Delete removes the workspace and everything it owns; admin only.
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspace_id")
	if !ok {
		return
	}

	if _, ok := h.requireAdmin(c, workspaceID); !ok {
		return
	}

	if err := h.workspaces.DeleteCascade(c.Request.Context(), workspaceID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrWorkspaceNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not delete workspace"})
		return
	}

	userID := userIDFromContext(c)
	h.audit.Emit(c.Request.Context(), telemetry.LevelWarn, "workspace deleted", requestIDFromContext(c), &userID)
	c.JSON(http.StatusOK, gin.H{"id": workspaceID})
}

func (h *WorkspaceHandler) requireMember(c *gin.Context, workspaceID int64) (models.Member, bool) {
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

func (h *WorkspaceHandler) requireAdmin(c *gin.Context, workspaceID int64) (models.Member, bool) {
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
