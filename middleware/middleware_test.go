package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.Set(config.AppConfig{JWTSecret: "test-secret", AdminUsernames: []string{"root"}})
	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	utils.SetRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	code := m.Run()
	mr.Close()
	os.Exit(code)
}

func do(r http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(t *testing.T, id uint, username string) http.Header {
	t.Helper()
	token, _, err := utils.GenerateToken(id, username)
	if err != nil {
		t.Fatal(err)
	}
	return http.Header{"Authorization": {"Bearer " + token}}
}

func TestCacheKeySortsQuery(t *testing.T) {
	a := httptest.NewRequest(http.MethodGet, "/?search=x&page=2", nil)
	b := httptest.NewRequest(http.MethodGet, "/?page=2&search=x", nil)
	if CacheKey(a) != CacheKey(b) {
		t.Fatalf("%q != %q", CacheKey(a), CacheKey(b))
	}
	if CacheKey(a) != "/?page=2&search=x" {
		t.Fatalf("CacheKey = %q", CacheKey(a))
	}
	c := httptest.NewRequest(http.MethodGet, "/?page=3&search=x", nil)
	if CacheKey(a) == CacheKey(c) {
		t.Fatal("different pages share a key")
	}
}

func TestCachePageServesStoredBytes(t *testing.T) {
	cache := utils.NewMemoryCache()
	now := time.Now()
	cache.SetClock(func() time.Time { return now })

	calls := 0
	r := gin.New()
	r.Any("/", CachePage(cache, 20*time.Second), func(c *gin.Context) {
		calls++
		utils.Success(c, gin.H{"calls": calls})
	})

	first := do(r, http.MethodGet, "/?search=a&page=1", nil)
	second := do(r, http.MethodGet, "/?page=1&search=a", nil)
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("cached body differs:\n%s\n%s", first.Body, second.Body)
	}
	if ct := second.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("Content-Type = %q", ct)
	}

	do(r, http.MethodGet, "/?page=2", nil)
	if calls != 2 {
		t.Fatal("a different query must miss the cache")
	}

	do(r, http.MethodPost, "/?search=a&page=1", nil)
	if calls != 3 {
		t.Fatal("POST must bypass the cache")
	}

	now = now.Add(20 * time.Second)
	third := do(r, http.MethodGet, "/?search=a&page=1", nil)
	if calls != 4 || third.Body.String() == first.Body.String() {
		t.Fatal("entry should expire after the ttl")
	}
}

func TestCachePageSkipsErrors(t *testing.T) {
	cache := utils.NewMemoryCache()
	calls := 0
	r := gin.New()
	r.GET("/", CachePage(cache, time.Minute), func(c *gin.Context) {
		calls++
		utils.Error(c, http.StatusInternalServerError, 50000, "boom")
	})
	do(r, http.MethodGet, "/", nil)
	do(r, http.MethodGet, "/", nil)
	if calls != 2 {
		t.Fatalf("error responses were cached")
	}
}

func TestLoginRequiredRedirectsWithNext(t *testing.T) {
	r := gin.New()
	r.Use(Authenticate())
	r.GET("/create/", LoginRequired(), func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.String(http.StatusOK, strconv.FormatUint(uint64(id), 10)+":"+CurrentUsername(c))
	})

	w := do(r, http.MethodGet, "/create/", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/auth/login/?next=%2Fcreate%2F" {
		t.Fatalf("Location = %q", loc)
	}

	w = do(r, http.MethodGet, "/create/", bearer(t, 5, "leo"))
	if w.Code != http.StatusOK || w.Body.String() != "5:leo" {
		t.Fatalf("authenticated request = %d %q", w.Code, w.Body)
	}

	token, _, _ := utils.GenerateToken(6, "ann")
	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Body.String() != "6:ann" {
		t.Fatalf("cookie auth = %d %q", rec.Code, rec.Body)
	}
}

func TestAuthenticateIgnoresBadTokens(t *testing.T) {
	r := gin.New()
	r.Use(Authenticate())
	r.GET("/", func(c *gin.Context) {
		_, ok := CurrentUserID(c)
		c.String(http.StatusOK, strconv.FormatBool(ok))
	})

	if w := do(r, http.MethodGet, "/", http.Header{"Authorization": {"Bearer garbage"}}); w.Body.String() != "false" {
		t.Fatal("garbage token authenticated")
	}

	token, expiresAt, _ := utils.GenerateToken(9, "gone")
	utils.RevokeToken(context.Background(), token, expiresAt)
	if w := do(r, http.MethodGet, "/", http.Header{"Authorization": {"Bearer " + token}}); w.Body.String() != "false" {
		t.Fatal("revoked token authenticated")
	}
}

func TestAdminRequired(t *testing.T) {
	r := gin.New()
	r.Use(Authenticate())
	r.POST("/admin/", AdminRequired(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	if w := do(r, http.MethodPost, "/admin/", bearer(t, 1, "leo")); w.Code != http.StatusForbidden {
		t.Fatalf("non-admin status = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/admin/", bearer(t, 2, "root")); w.Code != http.StatusNoContent {
		t.Fatalf("admin status = %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(Authenticate())
	r.GET("/", RateLimit(2), func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := do(r, http.MethodGet, "/", nil); w.Code != http.StatusOK {
		t.Fatalf("first request = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/", nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d, want 429", w.Code)
	}
	// a signed in user has a bucket of their own
	if w := do(r, http.MethodGet, "/", bearer(t, 1, "leo")); w.Code != http.StatusOK {
		t.Fatalf("user request = %d", w.Code)
	}
}
