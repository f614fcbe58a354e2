// Package feed assembles access-controlled, cursor-paginated message views
// enriched with reaction rollups and thread summaries. A request flows
// through four stages: scope resolution, page fetch, aggregate enrichment
// and view assembly, strictly in that order.
package feed

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"collab-service/internal/models"
	"collab-service/internal/repositories"
)

// Params selects the scope and page of a feed request. Exactly one of
// ChannelID/ConversationID may be set; ParentMessageID switches to the
// thread view.
type Params struct {
	ChannelID       *int64
	ConversationID  *int64
	ParentMessageID *int64
	Cursor          *int64
	Limit           int
}

// ResolvedScope is the normalized selector plus the caller's member id,
// produced by ResolveScope and consumed by the page fetcher.
type ResolvedScope struct {
	repositories.MessageScope
	MemberID int64
}

// Author is the denormalized message author (member + linked user).
type Author struct {
	MemberID int64   `json:"member_id"`
	UserID   int64   `json:"user_id"`
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	Image    *string `json:"image"`
}

// ThreadMeta summarizes the replies under a thread parent.
type ThreadMeta struct {
	Count     int
	Name      *string
	Image     *string
	Timestamp *time.Time
}

// MessageView is the response projection of one message.
type MessageView struct {
	models.Message
	Author          Author                `json:"member"`
	Reactions       []models.ReactionView `json:"reactions"`
	ThreadCount     int                   `json:"thread_count"`
	ThreadName      *string               `json:"thread_name"`
	ThreadImage     *string               `json:"thread_image"`
	ThreadTimestamp *time.Time            `json:"thread_timestamp"`
}

// Page is one feed page.
type Page struct {
	Messages   []MessageView `json:"messages"`
	NextCursor *int64        `json:"next_cursor"`
	HasMore    bool          `json:"has_more"`
}

// Service runs the feed pipeline over the repositories.
type Service struct {
	members       repositories.MemberRepository
	channels      repositories.ChannelRepository
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	reactions     repositories.ReactionRepository
}

// NewService builds a feed Service.
func NewService(
	members repositories.MemberRepository,
	channels repositories.ChannelRepository,
	conversations repositories.ConversationRepository,
	messages repositories.MessageRepository,
	reactions repositories.ReactionRepository,
) *Service {
	return &Service{
		members:       members,
		channels:      channels,
		conversations: conversations,
		messages:      messages,
		reactions:     reactions,
	}
}

var tracer = otel.Tracer("collab-service/feed")

// List returns one page of the feed selected by params. Stages run
// sequentially; no partial scope is ever used to fetch data.
func (s *Service) List(ctx context.Context, workspaceID, userID int64, params Params) (Page, error) {
	ctx, span := tracer.Start(ctx, "feed.list")
	defer span.End()

	scope, err := s.ResolveScope(ctx, workspaceID, userID, params)
	if err != nil {
		return Page{}, err
	}

	limit := clampLimit(params.Limit)
	rows, err := s.fetchPage(ctx, workspaceID, scope, params.Cursor, limit)
	if err != nil {
		return Page{}, err
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	reactionsByMessage, threadsByMessage, err := s.enrich(ctx, ids)
	if err != nil {
		return Page{}, err
	}

	return assemble(rows, reactionsByMessage, threadsByMessage, limit), nil
}
