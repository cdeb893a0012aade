package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
)

const SessionCookie = "geoapp_session"

// Session makes sure every browser carries a session id cookie. The id is
// stored in the request context so handlers and logs can pick it up.
func Session(maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || !validSessionID(id) {
			id = ksuid.New().String()
		}

		// Refresh the cookie on every request so its lifetime follows the
		// session's idle timeout.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, maxAge, "/", "", false, true)

		ctx := context.WithValue(c.Request.Context(), CtxKeySessionID, id)
		c.Request = c.Request.Clone(ctx)

		c.Next()
	}
}

// SessionID returns the id set by the Session middleware, if any.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(CtxKeySessionID).(string)
	return id
}

func validSessionID(id string) bool {
	_, err := ksuid.Parse(id)
	return err == nil
}
