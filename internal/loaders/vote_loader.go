package loaders

import (
	"updoot/internal/db"
	"updoot/internal/models"
)

// VoteKey identifies one ledger row: the viewer's vote on one post.
type VoteKey struct {
	PostID uint
	UserID uint
}

// NewVoteLoader builds the per-request loader resolving (post, user) pairs
// to ledger rows. A nil result means the viewer hasn't voted on that post.
func NewVoteLoader() *Loader[VoteKey, *models.Vote] {
	return New(func(keys []VoteKey) ([]*models.Vote, error) {
		postIDs := make([]uint, 0, len(keys))
		userIDs := make([]uint, 0, len(keys))
		for _, k := range keys {
			postIDs = append(postIDs, k.PostID)
			userIDs = append(userIDs, k.UserID)
		}

		// One superset query; the map below filters it down to the exact
		// pairs that were asked for.
		var votes []models.Vote
		if err := db.DB.Where("post_id IN ? AND user_id IN ?", postIDs, userIDs).Find(&votes).Error; err != nil {
			return nil, err
		}

		byKey := make(map[VoteKey]*models.Vote, len(votes))
		for i := range votes {
			byKey[VoteKey{PostID: votes[i].PostID, UserID: votes[i].UserID}] = &votes[i]
		}

		out := make([]*models.Vote, len(keys))
		for i, k := range keys {
			out[i] = byKey[k]
		}
		return out, nil
	})
}
