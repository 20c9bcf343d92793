package security

import (
	"net/http"
	"time"
)

const AuthCookieName = "auth_token"

// SetAuthToken stores the signed token in an HttpOnly cookie.
// The token never travels in a JSON body; the cookie is the only channel.
func SetAuthToken(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	name := AuthCookieName
	if secure {
		name = "__Host-" + AuthCookieName
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure, // prod=true, dev=false
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func ClearAuthToken(w http.ResponseWriter, secure bool) {
	name := AuthCookieName
	if secure {
		name = "__Host-" + AuthCookieName
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// ReadAuthToken prefers the __Host- cookie; the bare name is a fallback
// for local non-HTTPS development.
func ReadAuthToken(r *http.Request) (string, error) {
	if c, err := r.Cookie("__Host-" + AuthCookieName); err == nil {
		return c.Value, nil
	}
	c, err := r.Cookie(AuthCookieName)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}
