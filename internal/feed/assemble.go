package feed

import (
	"collab-service/internal/models"
)

// assemble merges rows and aggregates into the response page. The next
// cursor is the id of the last message iff the page is exactly full: a
// size-based heuristic, so when the total count is an exact multiple of the
// limit the final "more" turns false only one page late.
func assemble(rows []models.MessageRow, reactionsByMessage map[int64][]models.ReactionView, threadsByMessage map[int64]ThreadMeta, limit int) Page {
	messages := make([]MessageView, 0, len(rows))
	for _, row := range rows {
		view := MessageView{
			Message: row.Message,
			Author: Author{
				MemberID: *row.AuthorMemberID,
				UserID:   *row.AuthorUserID,
				Name:     row.AuthorName,
				Image:    row.AuthorImage,
			},
			Reactions: []models.ReactionView{},
		}
		if row.AuthorEmail != nil {
			view.Author.Email = *row.AuthorEmail
		}
		if reactions, ok := reactionsByMessage[row.ID]; ok {
			view.Reactions = reactions
		}
		if meta, ok := threadsByMessage[row.ID]; ok {
			view.ThreadCount = meta.Count
			view.ThreadName = meta.Name
			view.ThreadImage = meta.Image
			view.ThreadTimestamp = meta.Timestamp
		}
		messages = append(messages, view)
	}

	var nextCursor *int64
	if len(messages) == limit && limit > 0 {
		last := messages[len(messages)-1].ID
		nextCursor = &last
	}

	return Page{
		Messages:   messages,
		NextCursor: nextCursor,
		HasMore:    nextCursor != nil,
	}
}
