package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/utils"
)

// bodyRecorder tees everything the handler writes so it can be cached.
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheKey is the request path plus its query parameters sorted by name,
// so ?page=2&search=x and ?search=x&page=2 share an entry.
func CacheKey(r *http.Request) string {
	return r.URL.Path + "?" + r.URL.Query().Encode()
}

// CachePage serves GET responses from cache for ttl. Writes elsewhere do not invalidate
// entries; a page may be up to ttl stale.
func CachePage(cache utils.ResponseCache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		key := CacheKey(c.Request)
		if b, ok := cache.Get(c.Request.Context(), key); ok {
			c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", b)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if rec.Status() == http.StatusOK && rec.body.Len() > 0 {
			cache.Set(c.Request.Context(), key, rec.body.Bytes(), ttl)
		}
	}
}
