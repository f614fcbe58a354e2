package feed

import (
	"context"
	"errors"

	"collab-service/internal/apperrors"
	"collab-service/internal/models"
	"collab-service/internal/repositories"
)

// GetMessage returns one message with its reaction rollup. The author
// member must resolve within the workspace or the message is NotFound.
func (s *Service) GetMessage(ctx context.Context, workspaceID, messageID, userID int64) (MessageView, error) {
	ctx, span := tracer.Start(ctx, "feed.get_message")
	defer span.End()

	if _, err := s.members.GetByWorkspaceAndUser(ctx, workspaceID, userID); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return MessageView{}, apperrors.Unauthorized("not a workspace member")
		}
		return MessageView{}, err
	}

	msg, err := s.messages.Get(ctx, messageID)
	if err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			return MessageView{}, apperrors.NotFound("message not found")
		}
		return MessageView{}, err
	}
	if msg.WorkspaceID != workspaceID {
		return MessageView{}, apperrors.NotFound("message not found")
	}

	author, err := s.members.GetWithUser(ctx, msg.MemberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return MessageView{}, apperrors.NotFound("message not found")
		}
		return MessageView{}, err
	}
	if author.WorkspaceID != workspaceID {
		return MessageView{}, apperrors.NotFound("message not found")
	}

	rows, err := s.reactions.ListForMessages(ctx, []int64{messageID})
	if err != nil {
		return MessageView{}, err
	}

	view := MessageView{
		Message: msg,
		Author: Author{
			MemberID: author.ID,
			UserID:   author.User.ID,
			Email:    author.User.Email,
			Name:     author.User.Name,
			Image:    author.User.Image,
		},
		Reactions: []models.ReactionView{},
	}
	if reactions, ok := rollupReactions(rows)[messageID]; ok {
		view.Reactions = reactions
	}
	return view, nil
}
