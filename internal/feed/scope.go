package feed

import (
	"context"
	"errors"

	"collab-service/internal/apperrors"
	"collab-service/internal/repositories"
)

// ResolveScope validates the selector against the caller's membership and
// normalizes it into an exact-match filter. Every authorization and
// existence check fails here, before any page fetch is issued.
func (s *Service) ResolveScope(ctx context.Context, workspaceID, userID int64, params Params) (ResolvedScope, error) {
	ctx, span := tracer.Start(ctx, "feed.resolve_scope")
	defer span.End()

	member, err := s.members.GetByWorkspaceAndUser(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return ResolvedScope{}, apperrors.Unauthorized("not a workspace member")
		}
		return ResolvedScope{}, err
	}

	channelID := params.ChannelID
	conversationID := params.ConversationID
	parentMessageID := params.ParentMessageID

	// A bare thread selector inherits its conversation from the parent, so
	// threads inside DMs stay gated on conversation participation.
	if channelID == nil && conversationID == nil && parentMessageID != nil {
		parent, err := s.messages.Get(ctx, *parentMessageID)
		if err != nil {
			if errors.Is(err, repositories.ErrMessageNotFound) {
				return ResolvedScope{}, apperrors.NotFound("parent message not found")
			}
			return ResolvedScope{}, err
		}
		if parent.WorkspaceID != workspaceID {
			return ResolvedScope{}, apperrors.NotFound("parent message not found")
		}
		if parent.ConversationID != nil {
			conversationID = parent.ConversationID
		}
	}

	if channelID != nil {
		ch, err := s.channels.Get(ctx, *channelID)
		if err != nil && !errors.Is(err, repositories.ErrChannelNotFound) {
			return ResolvedScope{}, err
		}
		if err != nil || ch.WorkspaceID != workspaceID {
			return ResolvedScope{}, apperrors.Forbidden("invalid channel for this workspace")
		}
	}

	if conversationID != nil {
		conv, err := s.conversations.Get(ctx, *conversationID)
		if err != nil && !errors.Is(err, repositories.ErrConversationNotFound) {
			return ResolvedScope{}, err
		}
		if err != nil || conv.WorkspaceID != workspaceID {
			return ResolvedScope{}, apperrors.Forbidden("invalid conversation for this workspace")
		}
		if !conv.HasParticipant(member.ID) {
			return ResolvedScope{}, apperrors.Forbidden("not a participant of this conversation")
		}
	}

	return ResolvedScope{
		MessageScope: repositories.MessageScope{
			ChannelID:       channelID,
			ConversationID:  conversationID,
			ParentMessageID: parentMessageID,
		},
		MemberID: member.ID,
	}, nil
}
