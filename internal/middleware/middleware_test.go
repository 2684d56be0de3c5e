package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiddlewareTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware(), CartSession(false))
	router.GET("/test", func(c *gin.Context) {
		id, ok := GetSessionID(c)
		c.JSON(http.StatusOK, gin.H{"session_id": id, "ok": ok})
	})
	return router
}

func TestCartSession_MintsNewSession(t *testing.T) {
	router := setupMiddlewareTest()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(SessionHeader)
	assert.Len(t, id, 36)
	assert.Contains(t, w.Body.String(), id)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCartSession_HeaderWinsOverCookie(t *testing.T) {
	router := setupMiddlewareTest()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(SessionHeader, "device-header-1")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "device-cookie-1"})
	router.ServeHTTP(w, req)

	assert.Equal(t, "device-header-1", w.Header().Get(SessionHeader))
}

func TestCartSession_FallsBackToCookie(t *testing.T) {
	router := setupMiddlewareTest()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "device-cookie-1"})
	router.ServeHTTP(w, req)

	assert.Equal(t, "device-cookie-1", w.Header().Get(SessionHeader))
}

func TestCartSession_RejectsUnsafeIDs(t *testing.T) {
	router := setupMiddlewareTest()

	for _, bad := range []string{"short", "../../etc/passwd", "has space in it", "tene_cart:other"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(SessionHeader, bad)
		router.ServeHTTP(w, req)

		assert.NotEqual(t, bad, w.Header().Get(SessionHeader), bad)
		assert.Len(t, w.Header().Get(SessionHeader), 36)
	}
}

func TestLoggingMiddleware_KeepsIncomingRequestID(t *testing.T) {
	router := setupMiddlewareTest()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS([]string{"https://tene.ge"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://tene.ge")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://tene.ge", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), SessionHeader)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
