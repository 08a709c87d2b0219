package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"ludo_client/internal/session"

	"github.com/gin-gonic/gin"
)

func actionRouter(limit gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	asViewer := func(c *gin.Context) {
		c.Set(ViewerKey, c.GetHeader("X-Viewer"))
		c.Next()
	}
	ok := func(c *gin.Context) { c.Status(http.StatusAccepted) }
	r.POST("/api/roll", asViewer, limit, ok)
	r.POST("/api/move", asViewer, limit, ok)
	return r
}

func post(r http.Handler, path, viewer string) int {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("X-Viewer", viewer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

// Runs only when REDIS_ADDR is set.
func TestRedisRateLimitSharesBudgetAcrossActions(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	rdb, err := session.NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), 0)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	r := actionRouter(RedisRateLimit(rdb, 2, 2*time.Second))
	alice := "alice-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	bob := "bob-" + strconv.FormatInt(time.Now().UnixNano(), 36)

	if code := post(r, "/api/roll", alice); code != http.StatusAccepted {
		t.Fatalf("first roll = %d", code)
	}
	if code := post(r, "/api/move", alice); code != http.StatusAccepted {
		t.Fatalf("first move = %d", code)
	}
	if code := post(r, "/api/roll", alice); code != http.StatusTooManyRequests {
		t.Fatalf("third action = %d, want 429", code)
	}
	if code := post(r, "/api/roll", bob); code != http.StatusAccepted {
		t.Fatalf("other viewer = %d", code)
	}
}

func TestRedisRateLimitWithoutClientPasses(t *testing.T) {
	r := actionRouter(RedisRateLimit(nil, 1, time.Minute))
	for i := 0; i < 3; i++ {
		if code := post(r, "/api/roll", "alice"); code != http.StatusAccepted {
			t.Fatalf("request %d = %d", i, code)
		}
	}
}
