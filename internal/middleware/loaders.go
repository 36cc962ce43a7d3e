package middleware

import (
	"updoot/internal/loaders"
	"updoot/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	UserLoaderKey = "user_loader"
	VoteLoaderKey = "vote_loader"
)

// RequestLoaders attaches fresh batch loaders to the request context. The
// loaders cache everything they see, so an instance has to live and die
// with exactly one request; sharing one across requests would leak another
// viewer's vote state.
func RequestLoaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(UserLoaderKey, loaders.NewUserLoader())
		c.Set(VoteLoaderKey, loaders.NewVoteLoader())
		c.Next()
	}
}

// UserLoaderFrom returns this request's user loader.
func UserLoaderFrom(c *gin.Context) *loaders.Loader[uint, *models.User] {
	return c.MustGet(UserLoaderKey).(*loaders.Loader[uint, *models.User])
}

// VoteLoaderFrom returns this request's vote loader.
func VoteLoaderFrom(c *gin.Context) *loaders.Loader[loaders.VoteKey, *models.Vote] {
	return c.MustGet(VoteLoaderKey).(*loaders.Loader[loaders.VoteKey, *models.Vote])
}
