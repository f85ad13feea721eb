package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/utils"
)

// PageViewRecorder counts successful GET page views per local day and path.
func PageViewRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != "GET" {
			return
		}
		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}
		path := c.Request.URL.Path
		if path == "/health" || strings.HasPrefix(path, "/stats") || strings.HasPrefix(path, "/media/") {
			return
		}

		// Atomic upsert to avoid duplicate key errors under concurrency
		now := time.Now()
		err := db.WithContext(c.Request.Context()).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day"}, {Name: "path"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("page_views.count + 1"), "updated_at": now}),
		}).Create(&models.PageView{Day: now.Format(models.PageViewDayLayout), Path: path, Count: 1}).Error
		if err != nil {
			utils.Sugar.Warnf("record page view path=%s err=%v", path, err)
		}
	}
}
