package loaders

import (
	"updoot/internal/db"
	"updoot/internal/models"
)

// NewUserLoader builds the per-request loader resolving user ids to users,
// used to fill post creators without one query per post.
func NewUserLoader() *Loader[uint, *models.User] {
	return New(func(ids []uint) ([]*models.User, error) {
		var users []models.User
		if err := db.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}

		byID := make(map[uint]*models.User, len(users))
		for i := range users {
			byID[users[i].ID] = &users[i]
		}

		// Fan results back out in request order; unknown ids stay nil
		out := make([]*models.User, len(ids))
		for i, id := range ids {
			out[i] = byID[id]
		}
		return out, nil
	})
}
