package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
)

const (
	CartSessionHeader = "X-Cart-Session"
	CartSessionCookie = "cart_session"

	maxCartSessionLen = 128
)

// CartSession resolves the cart session from the X-Cart-Session header or the
// cart_session cookie and mints a new one when neither is usable. The resolved
// id is echoed back in both so browser and API clients can keep it.
func CartSession(logg *logger.Logger, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := sessionFromRequest(r)
			minted := false
			if sessionID == "" {
				sessionID = uuid.NewString()
				minted = true
			}

			w.Header().Set(CartSessionHeader, sessionID)
			http.SetCookie(w, &http.Cookie{
				Name:     CartSessionCookie,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				Secure:   secureCookie,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
				if minted {
					logg.Debug(ctx, "cart.session_minted")
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromRequest(r *http.Request) string {
	if v := cleanToken(r.Header.Get(CartSessionHeader), maxCartSessionLen); v != "" {
		return v
	}
	if c, err := r.Cookie(CartSessionCookie); err == nil {
		return cleanToken(c.Value, maxCartSessionLen)
	}
	return ""
}

// cleanToken returns raw trimmed when it is a non-empty run of at most max
// letters, digits, dashes and underscores, and "" otherwise.
func cleanToken(raw string, max int) string {
	v := strings.TrimSpace(raw)
	if v == "" || len(v) > max {
		return ""
	}
	for _, ch := range v {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
		default:
			return ""
		}
	}
	return v
}
