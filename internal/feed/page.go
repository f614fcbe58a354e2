package feed

import (
	"context"
	"errors"

	"collab-service/internal/apperrors"
	"collab-service/internal/models"
	"collab-service/internal/repositories"
)

const (
	defaultLimit = 25
	maxLimit     = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// fetchPage retrieves the next page of rows after the cursor in
// (created_at DESC, id DESC) order. The cursor is the id of the last row of
// the previous page; seeking needs that row's timestamp, so a dangling
// cursor is NotFound. Rows whose author reference is dangling are dropped
// here, silently: they are display artifacts of unrelated deletions, not
// caller mistakes.
func (s *Service) fetchPage(ctx context.Context, workspaceID int64, scope ResolvedScope, cursor *int64, limit int) ([]models.MessageRow, error) {
	ctx, span := tracer.Start(ctx, "feed.fetch_page")
	defer span.End()

	var before *repositories.Seek
	if cursor != nil {
		cursorMsg, err := s.messages.Get(ctx, *cursor)
		if err != nil {
			if errors.Is(err, repositories.ErrMessageNotFound) {
				return nil, apperrors.NotFound("cursor message not found")
			}
			return nil, err
		}
		before = &repositories.Seek{CreatedAt: cursorMsg.CreatedAt, ID: cursorMsg.ID}
	}

	rows, err := s.messages.FetchPage(ctx, workspaceID, scope.MessageScope, before, limit)
	if err != nil {
		return nil, err
	}

	kept := rows[:0]
	for _, row := range rows {
		if row.HasAuthor() {
			kept = append(kept, row)
		}
	}
	return kept, nil
}
