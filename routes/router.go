package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/controllers"
	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/repository"
	"github.com/cppla/yatube/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, cache utils.ResponseCache) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// access log goes to its own rolling file; without one, panics are still logged through the app logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(utils.RecoveryWithZap(utils.Logger, true))
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.Authenticate())
	r.Use(middleware.PageViewRecorder(db))

	r.Static(cfg.MediaURL, cfg.MediaRoot)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	follows := repository.NewFollowRepository(db)

	postController := controllers.NewPostController(posts, users, follows, cfg.MediaRoot)
	followController := controllers.NewFollowController(users, follows)
	authController := controllers.NewAuthController(users)
	statsController := controllers.NewStatsController(db)
	adminController := controllers.NewAdminController(cache)

	limit := middleware.RateLimit(cfg.RateLimitPerMinute)
	login := middleware.LoginRequired()

	r.GET("/", middleware.CachePage(cache, time.Duration(cfg.IndexCacheSeconds)*time.Second), postController.Index)
	r.GET("/group/:slug/", postController.GroupPosts)
	r.GET("/profile/:username/", postController.Profile)
	r.GET("/posts/:id/", postController.PostDetail)
	r.POST("/posts/:id/", login, limit, postController.AddComment)

	authed := r.Group("/", login)
	authed.GET("/follow/", postController.FollowIndex)
	authed.GET("/create/", postController.CreatePost)
	authed.GET("/posts/:id/edit/", postController.EditPost)
	authed.GET("/posts/:id/delete/", postController.DeletePost)
	authed.GET("/profile/:username/follow/", followController.Follow)
	authed.GET("/profile/:username/unfollow/", followController.Unfollow)

	writes := authed.Group("/", limit)
	writes.POST("/create/", postController.CreatePost)
	writes.POST("/posts/:id/edit/", postController.EditPost)
	writes.POST("/posts/:id/delete/", postController.DeletePost)
	writes.POST("/posts/:id/comment/", postController.AddComment)
	writes.POST("/profile/:username/follow/", followController.Follow)
	writes.POST("/profile/:username/unfollow/", followController.Unfollow)

	authGroup := r.Group("/auth", limit)
	authGroup.GET("/signup/", authController.SignupForm)
	authGroup.POST("/signup/", authController.Signup)
	authGroup.GET("/login/", authController.LoginForm)
	authGroup.POST("/login/", authController.Login)
	authGroup.GET("/logout/", authController.Logout)
	authGroup.POST("/logout/", authController.Logout)

	r.GET("/stats/", statsController.GetStats)
	r.GET("/stats/posts/:id/", statsController.GetPostStats)

	r.POST("/admin/cache/clear/", login, middleware.AdminRequired(), adminController.ClearCache)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "page not found")
	})

	return r
}
