package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"collab-service/internal/mocks"
	"collab-service/internal/models"
)

func setupChannelRouter() (*gin.Engine, *mocks.ChannelRepositoryMock, *mocks.MemberRepositoryMock, *mocks.ConversationRepositoryMock) {
	gin.SetMode(gin.TestMode)
	channels := new(mocks.ChannelRepositoryMock)
	members := new(mocks.MemberRepositoryMock)
	conversations := new(mocks.ConversationRepositoryMock)
	channelHandler := NewChannelHandler(channels, members)
	conversationHandler := NewConversationHandler(conversations, members)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", int64(5))
		c.Next()
	})
	r.POST("/workspaces/:workspace_id/channels", channelHandler.Create)
	r.GET("/workspaces/:workspace_id/channels", channelHandler.List)
	r.GET("/workspaces/:workspace_id/channels/:channel_id", channelHandler.Get)
	r.DELETE("/workspaces/:workspace_id/channels/:channel_id", channelHandler.Delete)
	r.POST("/workspaces/:workspace_id/conversations", conversationHandler.CreateOrGet)
	return r, channels, members, conversations
}

func TestCreateChannelSlugsName(t *testing.T) {
	router, channels, members, _ := setupChannelRouter()

	members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{ID: 7, WorkspaceID: 1, UserID: 5}, nil).Once()
	channels.On("Create", mock.Anything, int64(1), "team-updates").
		Return(models.Channel{ID: 3, WorkspaceID: 1, Name: "team-updates"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/workspaces/1/channels", bytes.NewBufferString(`{"name":"Team  Updates"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	channels.AssertExpectations(t)
}

func TestGetChannelFromOtherWorkspace(t *testing.T) {
	router, channels, members, _ := setupChannelRouter()

	members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{ID: 7, WorkspaceID: 1, UserID: 5}, nil).Once()
	channels.On("Get", mock.Anything, int64(3)).
		Return(models.Channel{ID: 3, WorkspaceID: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/workspaces/1/channels/3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteChannelRequiresAdmin(t *testing.T) {
	router, _, members, _ := setupChannelRouter()

	members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{ID: 7, WorkspaceID: 1, UserID: 5, Role: models.RoleMember}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/workspaces/1/channels/3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteChannelCascades(t *testing.T) {
	router, channels, members, _ := setupChannelRouter()

	members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{ID: 7, WorkspaceID: 1, UserID: 5, Role: models.RoleAdmin}, nil).Once()
	channels.On("Get", mock.Anything, int64(3)).
		Return(models.Channel{ID: 3, WorkspaceID: 1}, nil).Once()
	channels.On("DeleteCascade", mock.Anything, int64(3)).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/workspaces/1/channels/3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	channels.AssertExpectations(t)
}

func TestCreateOrGetConversation(t *testing.T) {
	router, _, members, conversations := setupChannelRouter()

	members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{ID: 7, WorkspaceID: 1, UserID: 5}, nil).Once()
	members.On("Get", mock.Anything, int64(9)).
		Return(models.Member{ID: 9, WorkspaceID: 1, UserID: 6}, nil).Once()
	conversations.On("CreateOrGet", mock.Anything, int64(1), int64(7), int64(9)).
		Return(models.Conversation{ID: 4, WorkspaceID: 1, MemberOneID: 7, MemberTwoID: 9}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/workspaces/1/conversations", bytes.NewBufferString(`{"member_id":9}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.Conversation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(4), resp.ID)
	conversations.AssertExpectations(t)
}

func TestCreateOrGetConversationOtherMemberElsewhere(t *testing.T) {
	router, _, members, _ := setupChannelRouter()

	members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{ID: 7, WorkspaceID: 1, UserID: 5}, nil).Once()
	members.On("Get", mock.Anything, int64(9)).
		Return(models.Member{ID: 9, WorkspaceID: 2, UserID: 6}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/workspaces/1/conversations", bytes.NewBufferString(`{"member_id":9}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSlugChannelName(t *testing.T) {
	assert.Equal(t, "general", slugChannelName("General"))
	assert.Equal(t, "release-planning", slugChannelName("Release Planning"))
	assert.Equal(t, "a-b-c", slugChannelName("a  b\tc"))
}
