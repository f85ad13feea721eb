package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/utils"
)

// StatsController provides community statistics such as counts and daily page views.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics for the site.
func (s *StatsController) GetStats(ctx *gin.Context) {
	db := s.db.WithContext(ctx.Request.Context())
	counts := gin.H{}
	for name, model := range map[string]any{
		"user_count":    &models.User{},
		"post_count":    &models.Post{},
		"comment_count": &models.Comment{},
		"group_count":   &models.Group{},
		"follow_count":  &models.Follow{},
	} {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			// report 0 instead of failing the whole endpoint
			utils.Sugar.Warnw("stats count failed", "metric", name, "error", err)
		}
		counts[name] = n
	}

	var dailyPV int64
	today := time.Now().Format(models.PageViewDayLayout)
	if err := db.Model(&models.PageView{}).
		Where("day = ?", today).
		Select("COALESCE(SUM(count),0)").
		Scan(&dailyPV).Error; err != nil {
		dailyPV = 0
	}
	counts["daily_page_views"] = dailyPV

	utils.Success(ctx, counts)
}

// GetPostStats returns page views and the comment count of a post.
func (s *StatsController) GetPostStats(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		notFound(ctx, 40403, "post not found")
		return
	}
	db := s.db.WithContext(ctx.Request.Context())

	var pv int64
	if err := db.Model(&models.PageView{}).
		Where("path = ?", postURL(id)).
		Select("COALESCE(SUM(count),0)").
		Scan(&pv).Error; err != nil {
		pv = 0
	}

	var commentsCount int64
	if err := db.Model(&models.Comment{}).Where("post_id = ?", id).Count(&commentsCount).Error; err != nil {
		commentsCount = 0
	}

	utils.Success(ctx, gin.H{
		"pv":             pv,
		"comments_count": commentsCount,
	})
}
