package router

import (
	"net/http"
	"time"

	"github.com/shandysiswandi/authenticator/internal/pkg/session"
	"github.com/shandysiswandi/authenticator/internal/pkg/uid"
)

// SessionConfig configures the session cookie.
type SessionConfig struct {
	// CookieName defaults to "authenticator_sid".
	CookieName string
	// TTL sets the cookie Max-Age; zero makes it a browser-session cookie.
	TTL time.Duration
	// Secure marks the cookie HTTPS-only.
	Secure bool
	// ID generates new session IDs.
	ID uid.StringID
}

const defaultSessionCookie = "authenticator_sid"

func middlewareSession(cfg SessionConfig) Middleware {
	name := cfg.CookieName
	if name == "" {
		name = defaultSessionCookie
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := session.Normalize(r.Header.Get(session.HeaderSessionID))
			if sid == "" {
				if c, err := r.Cookie(name); err == nil {
					sid = session.Normalize(c.Value)
				}
			}

			if sid == "" && cfg.ID != nil {
				sid = cfg.ID.Generate()
				cookie := &http.Cookie{
					Name:     name,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				}
				if cfg.TTL > 0 {
					cookie.MaxAge = int(cfg.TTL.Seconds())
				}
				http.SetCookie(w, cookie)
			}

			if sid != "" {
				r = r.WithContext(session.WithID(r.Context(), sid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
