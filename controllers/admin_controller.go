package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/utils"
)

// AdminController exposes operator actions.
type AdminController struct {
	cache utils.ResponseCache
}

func NewAdminController(cache utils.ResponseCache) *AdminController {
	return &AdminController{cache: cache}
}

// ClearCache drops every cached page.
func (a *AdminController) ClearCache(ctx *gin.Context) {
	if err := a.cache.Clear(ctx.Request.Context()); err != nil {
		utils.Sugar.Errorw("cache clear failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to clear cache")
		return
	}
	utils.Sugar.Infow("response cache cleared", "by", middleware.CurrentUsername(ctx))
	utils.Success(ctx, gin.H{"message": "cache cleared"})
}
