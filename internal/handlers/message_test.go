package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"collab-service/internal/feed"
	"collab-service/internal/mocks"
	"collab-service/internal/models"
	"collab-service/internal/repositories"
)

func int64Ptr(v int64) *int64 { return &v }

type messageDeps struct {
	members       *mocks.MemberRepositoryMock
	channels      *mocks.ChannelRepositoryMock
	conversations *mocks.ConversationRepositoryMock
	messages      *mocks.MessageRepositoryMock
	reactions     *mocks.ReactionRepositoryMock
}

func setupMessageRouter() (*gin.Engine, messageDeps) {
	gin.SetMode(gin.TestMode)
	deps := messageDeps{
		members:       new(mocks.MemberRepositoryMock),
		channels:      new(mocks.ChannelRepositoryMock),
		conversations: new(mocks.ConversationRepositoryMock),
		messages:      new(mocks.MessageRepositoryMock),
		reactions:     new(mocks.ReactionRepositoryMock),
	}
	feedSvc := feed.NewService(deps.members, deps.channels, deps.conversations, deps.messages, deps.reactions)
	handler := NewMessageHandler(feedSvc, deps.messages, deps.members)
	reactionHandler := NewReactionHandler(deps.reactions, deps.messages, deps.members)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", int64(5))
		c.Next()
	})
	r.POST("/workspaces/:workspace_id/messages", handler.Create)
	r.GET("/workspaces/:workspace_id/messages", handler.List)
	r.GET("/workspaces/:workspace_id/messages/:message_id", handler.Get)
	r.PATCH("/workspaces/:workspace_id/messages/:message_id", handler.Update)
	r.DELETE("/workspaces/:workspace_id/messages/:message_id", handler.Delete)
	r.POST("/workspaces/:workspace_id/messages/:message_id/reactions", reactionHandler.Toggle)
	return r, deps
}

func TestCreateMessageInChannel(t *testing.T) {
	router, deps := setupMessageRouter()

	deps.members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{ID: 7, WorkspaceID: 1, UserID: 5}, nil).Once()
	deps.channels.On("Get", mock.Anything, int64(3)).
		Return(models.Channel{ID: 3, WorkspaceID: 1}, nil).Once()
	deps.messages.On("Create", mock.Anything, mock.MatchedBy(func(msg models.Message) bool {
		return msg.WorkspaceID == 1 && msg.MemberID == 7 &&
			msg.ChannelID != nil && *msg.ChannelID == 3 &&
			msg.ConversationID == nil && msg.Body == "hi"
	})).Return(models.Message{ID: 50, WorkspaceID: 1, MemberID: 7, ChannelID: int64Ptr(3), Body: "hi"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/workspaces/1/messages", bytes.NewBufferString(`{"body":"hi","channel_id":3}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	deps.messages.AssertExpectations(t)
}

func TestCreateMessageScopeRequired(t *testing.T) {
	router, _ := setupMessageRouter()

	req := httptest.NewRequest(http.MethodPost, "/workspaces/1/messages", bytes.NewBufferString(`{"body":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateMessageExclusiveScopes(t *testing.T) {
	router, _ := setupMessageRouter()

	req := httptest.NewRequest(http.MethodPost, "/workspaces/1/messages",
		bytes.NewBufferString(`{"body":"hi","channel_id":3,"conversation_id":4}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateThreadReplyInheritsConversation(t *testing.T) {
	router, deps := setupMessageRouter()

	deps.members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{ID: 7, WorkspaceID: 1, UserID: 5}, nil).Once()
	deps.messages.On("Get", mock.Anything, int64(20)).
		Return(models.Message{ID: 20, WorkspaceID: 1, ConversationID: int64Ptr(4)}, nil).Once()
	deps.conversations.On("Get", mock.Anything, int64(4)).
		Return(models.Conversation{ID: 4, WorkspaceID: 1, MemberOneID: 7, MemberTwoID: 9}, nil).Once()
	deps.messages.On("Create", mock.Anything, mock.MatchedBy(func(msg models.Message) bool {
		return msg.ParentMessageID != nil && *msg.ParentMessageID == 20 &&
			msg.ConversationID != nil && *msg.ConversationID == 4 &&
			msg.ChannelID == nil
	})).Return(models.Message{ID: 51, WorkspaceID: 1, MemberID: 7, ParentMessageID: int64Ptr(20), ConversationID: int64Ptr(4)}, nil).Once()

	// The channel_id is discarded once a parent is given: replies always
	// store the parent's scope.
	body := `{"body":"re","parent_message_id":20,"channel_id":3}`
	req := httptest.NewRequest(http.MethodPost, "/workspaces/1/messages", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	deps.messages.AssertExpectations(t)
}

func TestListMessagesSuccess(t *testing.T) {
	router, deps := setupMessageRouter()
	now := time.Now()

	deps.members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{ID: 7, WorkspaceID: 1, UserID: 5}, nil).Once()
	deps.channels.On("Get", mock.Anything, int64(3)).
		Return(models.Channel{ID: 3, WorkspaceID: 1}, nil).Once()
	deps.messages.On("FetchPage", mock.Anything, int64(1), mock.Anything, (*repositories.Seek)(nil), 25).
		Return([]models.MessageRow{{
			Message:        models.Message{ID: 60, WorkspaceID: 1, MemberID: 7, Body: "hey", CreatedAt: now},
			AuthorMemberID: int64Ptr(7),
			AuthorUserID:   int64Ptr(5),
		}}, nil).Once()
	deps.reactions.On("ListForMessages", mock.Anything, []int64{60}).
		Return([]models.Reaction(nil), nil).Once()
	deps.messages.On("CountReplies", mock.Anything, int64(60)).Return(0, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/workspaces/1/messages?channel_id=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Messages []struct {
			ID     int64 `json:"id"`
			Member struct {
				MemberID int64 `json:"member_id"`
			} `json:"member"`
			Reactions []any `json:"reactions"`
		} `json:"messages"`
		HasMore bool `json:"has_more"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, int64(60), resp.Messages[0].ID)
	assert.Equal(t, int64(7), resp.Messages[0].Member.MemberID)
	assert.NotNil(t, resp.Messages[0].Reactions)
	assert.False(t, resp.HasMore)
}

func TestListMessagesNonMember(t *testing.T) {
	router, deps := setupMessageRouter()

	deps.members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{}, repositories.ErrMemberNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/workspaces/1/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateMessageNotAuthor(t *testing.T) {
	router, deps := setupMessageRouter()

	deps.members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{ID: 7, WorkspaceID: 1, UserID: 5}, nil).Once()
	deps.messages.On("Get", mock.Anything, int64(60)).
		Return(models.Message{ID: 60, WorkspaceID: 1, MemberID: 8}, nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/workspaces/1/messages/60", bytes.NewBufferString(`{"body":"edit"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteMessageSuccess(t *testing.T) {
	router, deps := setupMessageRouter()

	deps.members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{ID: 7, WorkspaceID: 1, UserID: 5}, nil).Once()
	deps.messages.On("Get", mock.Anything, int64(60)).
		Return(models.Message{ID: 60, WorkspaceID: 1, MemberID: 7}, nil).Once()
	deps.messages.On("DeleteWithReactions", mock.Anything, int64(60)).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/workspaces/1/messages/60", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	deps.messages.AssertExpectations(t)
}

func TestToggleReactionRoundTrip(t *testing.T) {
	router, deps := setupMessageRouter()

	deps.messages.On("Get", mock.Anything, int64(60)).
		Return(models.Message{ID: 60, WorkspaceID: 1, MemberID: 8}, nil).Twice()
	deps.members.On("GetByWorkspaceAndUser", mock.Anything, int64(1), int64(5)).
		Return(models.Member{ID: 7, WorkspaceID: 1, UserID: 5}, nil).Twice()
	deps.reactions.On("Toggle", mock.Anything, int64(1), int64(60), int64(7), "👍").
		Return(true, nil).Once()
	deps.reactions.On("Toggle", mock.Anything, int64(1), int64(60), int64(7), "👍").
		Return(false, nil).Once()

	for i, wantAdded := range []bool{true, false} {
		req := httptest.NewRequest(http.MethodPost, "/workspaces/1/messages/60/reactions", bytes.NewBufferString(`{"value":"👍"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, "toggle %d", i)
		var resp struct {
			Added bool `json:"added"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, wantAdded, resp.Added)
	}
	deps.reactions.AssertExpectations(t)
}

func TestToggleReactionMessageFromOtherWorkspace(t *testing.T) {
	router, deps := setupMessageRouter()

	deps.messages.On("Get", mock.Anything, int64(60)).
		Return(models.Message{ID: 60, WorkspaceID: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/workspaces/1/messages/60/reactions", bytes.NewBufferString(`{"value":"👍"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
