package feed

import (
	"context"

	"golang.org/x/sync/errgroup"

	"collab-service/internal/models"
)

// Thread lookups are independent reads; fan out, but keep the dispatch
// bounded so tail latency stays flat at max page size.
const threadFanOut = 8

// enrich batch-loads reaction rollups and thread summaries for the page.
// The returned maps only hold entries for ids with at least one reaction or
// reply; absence means zero.
func (s *Service) enrich(ctx context.Context, messageIDs []int64) (map[int64][]models.ReactionView, map[int64]ThreadMeta, error) {
	ctx, span := tracer.Start(ctx, "feed.enrich")
	defer span.End()

	if len(messageIDs) == 0 {
		return map[int64][]models.ReactionView{}, map[int64]ThreadMeta{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)

	var reactionsByMessage map[int64][]models.ReactionView
	g.Go(func() error {
		rows, err := s.reactions.ListForMessages(gctx, messageIDs)
		if err != nil {
			return err
		}
		reactionsByMessage = rollupReactions(rows)
		return nil
	})

	// Each slot is written by exactly one goroutine, so no lock is needed;
	// completion order does not matter.
	threads := make([]ThreadMeta, len(messageIDs))
	tg, tctx := errgroup.WithContext(gctx)
	tg.SetLimit(threadFanOut)
	for i, parentID := range messageIDs {
		i, parentID := i, parentID
		tg.Go(func() error {
			count, err := s.messages.CountReplies(tctx, parentID)
			if err != nil {
				return err
			}
			if count == 0 {
				return nil
			}
			preview, err := s.messages.LatestReply(tctx, parentID)
			if err != nil {
				return err
			}
			threads[i] = ThreadMeta{
				Count:     count,
				Name:      preview.AuthorName,
				Image:     preview.Image,
				Timestamp: preview.CreatedAt,
			}
			return nil
		})
	}
	g.Go(tg.Wait)

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	threadsByMessage := make(map[int64]ThreadMeta)
	for i, meta := range threads {
		if meta.Count > 0 {
			threadsByMessage[messageIDs[i]] = meta
		}
	}
	return reactionsByMessage, threadsByMessage, nil
}

// rollupReactions groups raw reaction rows by (message, value), collapsing
// member ids into a de-duplicated set per group. Value and member order
// follow first appearance so output is stable.
func rollupReactions(rows []models.Reaction) map[int64][]models.ReactionView {
	type group struct {
		seen    map[int64]struct{}
		members []int64
	}
	groups := map[int64]map[string]*group{}
	valueOrder := map[int64][]string{}

	for _, row := range rows {
		byValue, ok := groups[row.MessageID]
		if !ok {
			byValue = map[string]*group{}
			groups[row.MessageID] = byValue
		}
		grp, ok := byValue[row.Value]
		if !ok {
			grp = &group{seen: map[int64]struct{}{}}
			byValue[row.Value] = grp
			valueOrder[row.MessageID] = append(valueOrder[row.MessageID], row.Value)
		}
		if _, dup := grp.seen[row.MemberID]; !dup {
			grp.seen[row.MemberID] = struct{}{}
			grp.members = append(grp.members, row.MemberID)
		}
	}

	result := make(map[int64][]models.ReactionView, len(groups))
	for messageID, byValue := range groups {
		views := make([]models.ReactionView, 0, len(byValue))
		for _, value := range valueOrder[messageID] {
			grp := byValue[value]
			views = append(views, models.ReactionView{
				Value:     value,
				Count:     len(grp.members),
				MemberIDs: grp.members,
			})
		}
		result[messageID] = views
	}
	return result
}
