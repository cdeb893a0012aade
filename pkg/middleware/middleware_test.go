package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manzanit0/geoapp/pkg/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.TraceID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Session(3600))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.SessionID(c.Request.Context()))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	return r
}

func TestSession(t *testing.T) {
	r := newRouter()
	existing := ksuid.New().String()

	testCases := []struct {
		desc       string
		cookie     string
		wantReused bool
	}{
		{desc: "a browser without a cookie gets a new session", cookie: ""},
		{desc: "a valid cookie is kept", cookie: existing, wantReused: true},
		{desc: "a forged cookie is replaced", cookie: "not-a-ksuid"},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tC.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: tC.cookie})
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)

			id := w.Body.String()
			_, err := ksuid.Parse(id)
			require.NoError(t, err)

			if tC.wantReused {
				assert.Equal(t, tC.cookie, id)
			} else {
				assert.NotEqual(t, tC.cookie, id)
			}

			cookies := w.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, id, cookies[0].Value)
			assert.True(t, cookies[0].HttpOnly)
		})
	}
}

func TestTraceIDHeader(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	_, err := ksuid.Parse(w.Header().Get(middleware.HeaderTraceID))
	assert.NoError(t, err)
}

func TestRecovery(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
