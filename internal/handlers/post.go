package handlers

import (
	"net/http"
	"time"
	"updoot/internal/db"
	"updoot/internal/loaders"
	"updoot/internal/middleware"
	"updoot/internal/models"
	"updoot/internal/utils"
	"updoot/internal/validate"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
	snippetLen      = 50
)

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

// List returns posts newest-first with cursor pagination. The cursor is a
// millisecond timestamp; posts created strictly before it are returned.
// One extra row is fetched to compute has_more without a count query.
func (h *PostHandler) List(c *gin.Context) {
	limit := defaultPageSize
	if l := utils.StringToInt(c.Query("limit")); l > 0 {
		limit = l
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	query := db.DB.Order("created_at DESC").Limit(limit + 1)
	if cursor := utils.StringToInt64(c.Query("cursor")); cursor > 0 {
		query = query.Where("created_at < ?", time.UnixMilli(cursor))
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		serverError(c)
		return
	}

	hasMore := len(posts) == limit+1
	if hasMore {
		posts = posts[:limit]
	}

	if err := h.fillRelations(c, posts); err != nil {
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "has_more": hasMore})
}

// fillRelations resolves each post's creator and the viewer's vote state
// through the request's batch loaders. All thunks are requested up front so
// the loaders can collapse them into one user query and one vote query.
func (h *PostHandler) fillRelations(c *gin.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	userLoader := middleware.UserLoaderFrom(c)
	voteLoader := middleware.VoteLoaderFrom(c)
	viewer := CurrentUser(c)

	userThunks := make([]func() (*models.User, error), len(posts))
	voteThunks := make([]func() (*models.Vote, error), len(posts))
	for i := range posts {
		userThunks[i] = userLoader.LoadThunk(posts[i].UserID)
		if viewer != nil {
			voteThunks[i] = voteLoader.LoadThunk(loaders.VoteKey{PostID: posts[i].ID, UserID: viewer.ID})
		}
	}

	for i := range posts {
		creator, err := userThunks[i]()
		if err != nil {
			return err
		}
		posts[i].User = creator

		if voteThunks[i] != nil {
			vote, err := voteThunks[i]()
			if err != nil {
				return err
			}
			if vote != nil {
				value := vote.Value
				posts[i].VoteStatus = &value
			}
		}

		posts[i].Snippet = utils.Snippet(posts[i].Content, snippetLen)
		posts[i].ContentHTML = utils.RenderMarkdown(posts[i].Content)
	}
	return nil
}

func (h *PostHandler) Detail(c *gin.Context) {
	id := utils.StringToInt(c.Param("id"))

	var post models.Post
	if err := db.DB.Preload("User").First(&post, id).Error; err != nil {
		fieldErrors(c, http.StatusNotFound, validate.ReasonPostNotFound.FieldError())
		return
	}

	viewer := CurrentUser(c)
	if viewer != nil {
		vote, err := middleware.VoteLoaderFrom(c).Load(loaders.VoteKey{PostID: post.ID, UserID: viewer.ID})
		if err != nil {
			serverError(c)
			return
		}
		if vote != nil {
			value := vote.Value
			post.VoteStatus = &value
		}
	}

	post.ContentHTML = utils.RenderMarkdown(post.Content)
	c.JSON(http.StatusOK, gin.H{"post": post})
}

type createPostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

func (h *PostHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fieldErrors(c, http.StatusBadRequest, validate.FieldError{Field: "title", Message: "Title is required"})
		return
	}

	post := models.Post{
		UserID:  user.ID,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		serverError(c)
		return
	}

	post.User = user
	c.JSON(http.StatusOK, gin.H{"post": post})
}

type updatePostRequest struct {
	Title string `json:"title" binding:"required"`
}

// Update edits a post's title. Only the creator may edit; anyone else gets
// the same not-found shape as a missing post.
func (h *PostHandler) Update(c *gin.Context) {
	user := CurrentUser(c)
	id := utils.StringToInt(c.Param("id"))

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fieldErrors(c, http.StatusBadRequest, validate.FieldError{Field: "title", Message: "Title is required"})
		return
	}

	var post models.Post
	if err := db.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&post).Error; err != nil {
		fieldErrors(c, http.StatusNotFound, validate.ReasonPostNotFound.FieldError())
		return
	}

	post.Title = req.Title
	if err := db.DB.Save(&post).Error; err != nil {
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Delete removes a post and its ledger rows in one transaction. Creator
// only, same not-found rule as Update.
func (h *PostHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)
	id := utils.StringToInt(c.Param("id"))

	var post models.Post
	if err := db.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&post).Error; err != nil {
		fieldErrors(c, http.StatusNotFound, validate.ReasonPostNotFound.FieldError())
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
