package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"collab-service/internal/mocks"
	"collab-service/internal/models"
)

func setupMemberRouter() (*gin.Engine, *mocks.MemberRepositoryMock) {
	gin.SetMode(gin.TestMode)
	members := new(mocks.MemberRepositoryMock)
	handler := NewMemberHandler(members, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", int64(5))
		c.Next()
	})
	r.GET("/workspaces/:workspace_id/members", handler.List)
	r.GET("/workspaces/:workspace_id/members/me", handler.Current)
	r.PATCH("/workspaces/:workspace_id/members/:member_id", handler.UpdateRole)
	r.DELETE("/workspaces/:workspace_id/members/:member_id", handler.Remove)
	return r, members
}

func TestListMembers(t *testing.T) {
	router, members := setupMemberRouter()

	members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{ID: 7, WorkspaceID: 1, UserID: 5}, nil).Once()
	members.On("ListWithUsers", mock.Anything, int64(1)).
		Return([]models.MemberWithUser{{Member: models.Member{ID: 7, WorkspaceID: 1}}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/workspaces/1/members", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	members.AssertExpectations(t)
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	router, _ := setupMemberRouter()

	req := httptest.NewRequest(http.MethodPatch, "/workspaces/1/members/9", bytes.NewBufferString(`{"role":"owner"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateRoleAsAdmin(t *testing.T) {
	router, members := setupMemberRouter()

	members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{ID: 7, WorkspaceID: 1, UserID: 5, Role: models.RoleAdmin}, nil).Once()
	members.On("Get", mock.Anything, int64(9)).
		Return(models.Member{ID: 9, WorkspaceID: 1, UserID: 6, Role: models.RoleMember}, nil).Once()
	members.On("UpdateRole", mock.Anything, int64(9), models.RoleAdmin).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/workspaces/1/members/9", bytes.NewBufferString(`{"role":"admin"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	members.AssertExpectations(t)
}

func TestRemoveMemberCascades(t *testing.T) {
	router, members := setupMemberRouter()

	members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{ID: 7, WorkspaceID: 1, UserID: 5, Role: models.RoleAdmin}, nil).Once()
	members.On("Get", mock.Anything, int64(9)).
		Return(models.Member{ID: 9, WorkspaceID: 1, UserID: 6}, nil).Once()
	members.On("RemoveCascade", mock.Anything, int64(9)).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/workspaces/1/members/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	members.AssertExpectations(t)
}
