package services

import (
	"errors"
	"updoot/internal/db"
	"updoot/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Vote directions accepted by CastVote.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

var ErrPostNotFound = errors.New("post not found")

// CastVote records userID's vote on postID and keeps the post's points
// column equal to the sum of its ledger rows. The ledger mutation and the
// points update always commit in the same transaction.
//
// Repeating the same direction is a no-op. Flipping direction rewrites the
// ledger row and applies a swing of 2*value. A concurrent first vote on the
// same (user, post) pair can make our insert lose to the composite primary
// key; that surfaces as gorm.ErrDuplicatedKey and is retried once, which
// then takes the update path against the committed row.
func CastVote(userID, postID uint, direction string) error {
	value := 1
	if direction == DirectionDown {
		value = -1
	}

	err := castVoteTx(userID, postID, value)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = castVoteTx(userID, postID, value)
	}
	return err
}

func castVoteTx(userID, postID uint, value int) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		// Lock the ledger row so two flips of the same vote serialize.
		var existing models.Vote
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{UserID: userID, PostID: postID, Value: value}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			return applyScoreDelta(tx, postID, value)

		case err != nil:
			return err

		case existing.Value == value:
			// Ledger already says this, nothing to apply.
			return nil

		default:
			if err := tx.Model(&models.Vote{}).
				Where("user_id = ? AND post_id = ?", userID, postID).
				Update("value", value).Error; err != nil {
				return err
			}
			// Moving from -1 to +1 (or back) swings the aggregate by 2.
			return applyScoreDelta(tx, postID, 2*value)
		}
	})
}

// applyScoreDelta adjusts the denormalized points counter for one ledger
// mutation. Must run inside the same transaction as that mutation.
func applyScoreDelta(tx *gorm.DB, postID uint, delta int) error {
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("points", gorm.Expr("points + ?", delta)).Error
}

// VoteStatus returns the viewer's current vote on a post: +1, -1, or nil
// when the viewer is unauthenticated or hasn't voted. List endpoints use
// the vote loader instead; this is the single-post path.
func VoteStatus(postID, viewerID uint) (*int, error) {
	if viewerID == 0 {
		return nil, nil
	}

	var vote models.Vote
	err := db.DB.Where("user_id = ? AND post_id = ?", viewerID, postID).First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote.Value, nil
}
