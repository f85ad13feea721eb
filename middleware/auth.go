package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextTokenKey stores the raw bearer token so logout can revoke it.
	ContextTokenKey = "token"

	// TokenCookie carries the JWT for clients that do not send an Authorization header.
	TokenCookie = "token"
	// LoginPath is where anonymous visitors of protected routes are sent.
	LoginPath = "/auth/login/"
)

// LoginURL returns the login page address that sends the user back to next afterwards.
func LoginURL(next string) string {
	return LoginPath + "?" + url.Values{"next": {next}}.Encode()
}

// bearerToken extracts the JWT from the Authorization header or the token cookie.
func bearerToken(ctx *gin.Context) string {
	if h := ctx.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := ctx.Cookie(TokenCookie); err == nil {
		return strings.TrimSpace(c)
	}
	return ""
}

// Authenticate identifies the user when a valid token is present. Anonymous requests pass through.
func Authenticate() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx)
		if token == "" {
			ctx.Next()
			return
		}
		if utils.IsTokenRevoked(ctx.Request.Context(), token) {
			ctx.Next()
			return
		}
		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Sugar.Debugf("ignoring invalid token: %v", err)
			ctx.Next()
			return
		}
		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextTokenKey, token)
		ctx.Next()
	}
}

// LoginRequired redirects anonymous visitors to the login page.
func LoginRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := CurrentUserID(ctx); !ok {
			ctx.Redirect(http.StatusFound, LoginURL(ctx.Request.URL.RequestURI()))
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// AdminRequired allows only users listed in AdminUsernames.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !IsAdmin(ctx) {
			utils.Error(ctx, http.StatusForbidden, 40300, "admin only")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// CurrentUserID returns the authenticated user's id.
func CurrentUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id > 0
}

// CurrentUsername returns the authenticated user's username, empty for anonymous requests.
func CurrentUsername(ctx *gin.Context) string {
	return ctx.GetString(ContextUsernameKey)
}

// IsAdmin reports whether the current user is a configured administrator.
func IsAdmin(ctx *gin.Context) bool {
	return config.Get().IsAdmin(CurrentUsername(ctx))
}
