package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/repository"
)

// FollowController subscribes the current user to authors and back.
type FollowController struct {
	users   *repository.UserRepository
	follows *repository.FollowRepository
}

// NewFollowController creates a new FollowController instance.
func NewFollowController(users *repository.UserRepository, follows *repository.FollowRepository) *FollowController {
	return &FollowController{users: users, follows: follows}
}

// Follow subscribes to :username. Self and repeated follows are ignored.
func (f *FollowController) Follow(ctx *gin.Context) {
	author, ok := f.author(ctx)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)
	err := f.follows.Create(ctx.Request.Context(), userID, author.ID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrSelfFollow), errors.Is(err, repository.ErrAlreadyFollowing):
		logIgnored(ctx, "follow", err)
	default:
		failure(ctx, 50040, "failed to follow", err)
		return
	}
	ctx.Redirect(http.StatusFound, profileURL(author.Username))
}

// Unfollow removes the subscription to :username if there is one.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	author, ok := f.author(ctx)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)
	err := f.follows.Delete(ctx.Request.Context(), userID, author.ID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrFollowNotFound):
		logIgnored(ctx, "unfollow", err)
	default:
		failure(ctx, 50041, "failed to unfollow", err)
		return
	}
	ctx.Redirect(http.StatusFound, profileURL(author.Username))
}

func (f *FollowController) author(ctx *gin.Context) (*models.User, bool) {
	user, err := f.users.ByUsername(ctx.Request.Context(), ctx.Param("username"))
	if errors.Is(err, repository.ErrNotFound) {
		notFound(ctx, 40402, "user not found")
		return nil, false
	}
	if err != nil {
		failure(ctx, 50023, "failed to load user", err)
		return nil, false
	}
	return user, true
}
