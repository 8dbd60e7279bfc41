package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "autopost_session"
	sessionIDKey      = "sid"
)

// SessionOptions configures the signed cookie that carries the session id.
// The AuthSession itself stays server side in the session store.
type SessionOptions struct {
	Secret []byte
	MaxAge int
	Secure bool
}

func SessionMiddleware(opts SessionOptions) gin.HandlerFunc {
	store := cookie.NewStore(opts.Secret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(sessionCookieName, store)
}

// sessionID returns the caller's session id, issuing a new cookie when the
// request carries none.
func sessionID(c *gin.Context) (string, error) {
	s := sessions.Default(c)
	if id, ok := s.Get(sessionIDKey).(string); ok && id != "" {
		return id, nil
	}

	id := uuid.New().String()
	s.Set(sessionIDKey, id)
	if err := s.Save(); err != nil {
		return "", err
	}
	return id, nil
}

// existingSessionID never issues a cookie.
func existingSessionID(c *gin.Context) string {
	id, _ := sessions.Default(c).Get(sessionIDKey).(string)
	return id
}
