package handlers

import (
	"errors"
	"net/http"
	"updoot/internal/services"
	"updoot/internal/utils"
	"updoot/internal/validate"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

type voteRequest struct {
	Direction string `json:"direction"`
}

// Vote casts the session user's vote on a post. AuthRequired runs before
// this, so an unauthenticated caller never reaches the ledger.
func (h *VoteHandler) Vote(c *gin.Context) {
	user := CurrentUser(c)
	postID := utils.StringToInt(c.Param("id"))

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		(req.Direction != services.DirectionUp && req.Direction != services.DirectionDown) {
		fieldErrors(c, http.StatusBadRequest, validate.ReasonBadDirection.FieldError())
		return
	}

	if err := services.CastVote(user.ID, uint(postID), req.Direction); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			fieldErrors(c, http.StatusNotFound, validate.ReasonPostNotFound.FieldError())
			return
		}
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
