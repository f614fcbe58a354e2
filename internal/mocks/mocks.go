package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"collab-service/internal/models"
	"collab-service/internal/repositories"
)

type WorkspaceRepositoryMock struct {
	mock.Mock
}

func (m *WorkspaceRepositoryMock) Create(ctx context.Context, name string, ownerID int64, joinCode string) (models.Workspace, error) {
	args := m.Called(ctx, name, ownerID, joinCode)
	var ws models.Workspace
	if val := args.Get(0); val != nil {
		ws = val.(models.Workspace)
	}
	return ws, args.Error(1)
}

func (m *WorkspaceRepositoryMock) Get(ctx context.Context, workspaceID int64) (models.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	var ws models.Workspace
	if val := args.Get(0); val != nil {
		ws = val.(models.Workspace)
	}
	return ws, args.Error(1)
}

func (m *WorkspaceRepositoryMock) ListForUser(ctx context.Context, userID int64) ([]models.Workspace, error) {
	args := m.Called(ctx, userID)
	var list []models.Workspace
	if val := args.Get(0); val != nil {
		list = val.([]models.Workspace)
	}
	return list, args.Error(1)
}

func (m *WorkspaceRepositoryMock) UpdateName(ctx context.Context, workspaceID int64, name string) error {
	args := m.Called(ctx, workspaceID, name)
	return args.Error(0)
}

func (m *WorkspaceRepositoryMock) UpdateJoinCode(ctx context.Context, workspaceID int64, joinCode string) error {
	args := m.Called(ctx, workspaceID, joinCode)
	return args.Error(0)
}

func (m *WorkspaceRepositoryMock) DeleteCascade(ctx context.Context, workspaceID int64) error {
	args := m.Called(ctx, workspaceID)
	return args.Error(0)
}

type MemberRepositoryMock struct {
	mock.Mock
}

func (m *MemberRepositoryMock) Create(ctx context.Context, workspaceID, userID int64, role string) (models.Member, error) {
	args := m.Called(ctx, workspaceID, userID, role)
	var member models.Member
	if val := args.Get(0); val != nil {
		member = val.(models.Member)
	}
	return member, args.Error(1)
}

func (m *MemberRepositoryMock) Get(ctx context.Context, memberID int64) (models.Member, error) {
	args := m.Called(ctx, memberID)
	var member models.Member
	if val := args.Get(0); val != nil {
		member = val.(models.Member)
	}
	return member, args.Error(1)
}

func (m *MemberRepositoryMock) GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID int64) (models.Member, error) {
	args := m.Called(ctx, workspaceID, userID)
	var member models.Member
	if val := args.Get(0); val != nil {
		member = val.(models.Member)
	}
	return member, args.Error(1)
}

func (m *MemberRepositoryMock) GetWithUser(ctx context.Context, memberID int64) (models.MemberWithUser, error) {
	args := m.Called(ctx, memberID)
	var member models.MemberWithUser
	if val := args.Get(0); val != nil {
		member = val.(models.MemberWithUser)
	}
	return member, args.Error(1)
}

func (m *MemberRepositoryMock) ListWithUsers(ctx context.Context, workspaceID int64) ([]models.MemberWithUser, error) {
	args := m.Called(ctx, workspaceID)
	var list []models.MemberWithUser
	if val := args.Get(0); val != nil {
		list = val.([]models.MemberWithUser)
	}
	return list, args.Error(1)
}

func (m *MemberRepositoryMock) UpdateRole(ctx context.Context, memberID int64, role string) error {
	args := m.Called(ctx, memberID, role)
	return args.Error(0)
}

func (m *MemberRepositoryMock) RemoveCascade(ctx context.Context, memberID int64) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

type ChannelRepositoryMock struct {
	mock.Mock
}

func (m *ChannelRepositoryMock) Create(ctx context.Context, workspaceID int64, name string) (models.Channel, error) {
	args := m.Called(ctx, workspaceID, name)
	var channel models.Channel
	if val := args.Get(0); val != nil {
		channel = val.(models.Channel)
	}
	return channel, args.Error(1)
}

func (m *ChannelRepositoryMock) Get(ctx context.Context, channelID int64) (models.Channel, error) {
	args := m.Called(ctx, channelID)
	var channel models.Channel
	if val := args.Get(0); val != nil {
		channel = val.(models.Channel)
	}
	return channel, args.Error(1)
}

func (m *ChannelRepositoryMock) ListByWorkspace(ctx context.Context, workspaceID int64) ([]models.Channel, error) {
	args := m.Called(ctx, workspaceID)
	var list []models.Channel
	if val := args.Get(0); val != nil {
		list = val.([]models.Channel)
	}
	return list, args.Error(1)
}

func (m *ChannelRepositoryMock) UpdateName(ctx context.Context, channelID int64, name string) error {
	args := m.Called(ctx, channelID, name)
	return args.Error(0)
}

func (m *ChannelRepositoryMock) DeleteCascade(ctx context.Context, channelID int64) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) CreateOrGet(ctx context.Context, workspaceID, memberOneID, memberTwoID int64) (models.Conversation, error) {
	args := m.Called(ctx, workspaceID, memberOneID, memberTwoID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) Get(ctx context.Context, conversationID int64) (models.Conversation, error) {
	args := m.Called(ctx, conversationID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, msg models.Message) (models.Message, error) {
	args := m.Called(ctx, msg)
	var out models.Message
	if val := args.Get(0); val != nil {
		out = val.(models.Message)
	}
	return out, args.Error(1)
}

func (m *MessageRepositoryMock) Get(ctx context.Context, messageID int64) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var out models.Message
	if val := args.Get(0); val != nil {
		out = val.(models.Message)
	}
	return out, args.Error(1)
}

func (m *MessageRepositoryMock) UpdateBody(ctx context.Context, messageID int64, body string) (models.Message, error) {
	args := m.Called(ctx, messageID, body)
	var out models.Message
	if val := args.Get(0); val != nil {
		out = val.(models.Message)
	}
	return out, args.Error(1)
}

func (m *MessageRepositoryMock) DeleteWithReactions(ctx context.Context, messageID int64) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) FetchPage(ctx context.Context, workspaceID int64, scope repositories.MessageScope, before *repositories.Seek, limit int) ([]models.MessageRow, error) {
	args := m.Called(ctx, workspaceID, scope, before, limit)
	var rows []models.MessageRow
	if val := args.Get(0); val != nil {
		rows = val.([]models.MessageRow)
	}
	return rows, args.Error(1)
}

func (m *MessageRepositoryMock) CountReplies(ctx context.Context, parentID int64) (int, error) {
	args := m.Called(ctx, parentID)
	return args.Int(0), args.Error(1)
}

func (m *MessageRepositoryMock) LatestReply(ctx context.Context, parentID int64) (repositories.ThreadPreview, error) {
	args := m.Called(ctx, parentID)
	var preview repositories.ThreadPreview
	if val := args.Get(0); val != nil {
		preview = val.(repositories.ThreadPreview)
	}
	return preview, args.Error(1)
}

type ReactionRepositoryMock struct {
	mock.Mock
}

func (m *ReactionRepositoryMock) ListForMessages(ctx context.Context, messageIDs []int64) ([]models.Reaction, error) {
	args := m.Called(ctx, messageIDs)
	var list []models.Reaction
	if val := args.Get(0); val != nil {
		list = val.([]models.Reaction)
	}
	return list, args.Error(1)
}

func (m *ReactionRepositoryMock) Toggle(ctx context.Context, workspaceID, messageID, memberID int64, value string) (bool, error) {
	args := m.Called(ctx, workspaceID, messageID, memberID, value)
	return args.Bool(0), args.Error(1)
}

type FileRepositoryMock struct {
	mock.Mock
}

func (m *FileRepositoryMock) Create(ctx context.Context, file models.File) (models.File, error) {
	args := m.Called(ctx, file)
	var out models.File
	if val := args.Get(0); val != nil {
		out = val.(models.File)
	}
	return out, args.Error(1)
}

func (m *FileRepositoryMock) Get(ctx context.Context, fileID int64) (models.File, error) {
	args := m.Called(ctx, fileID)
	var out models.File
	if val := args.Get(0); val != nil {
		out = val.(models.File)
	}
	return out, args.Error(1)
}

func (m *FileRepositoryMock) Delete(ctx context.Context, fileID int64) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) Resolve(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

type BlobStoreMock struct {
	mock.Mock
}

func (m *BlobStoreMock) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	args := m.Called(ctx, key, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *BlobStoreMock) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
