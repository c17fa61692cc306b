package middleware

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session_id"

// ExpiredSessionCookie overwrites the client's session cookie.
const ExpiredSessionCookie = "session_id=; HttpOnly; SameSite=Strict; Secure; Expires=1 Jan 1970 00:00:00 GMT"

// SetSessionCookie delivers a session token that the client keeps until expires.
func SetSessionCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  expires,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie instructs the client to drop its session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	w.Header().Add("Set-Cookie", ExpiredSessionCookie)
}

// SessionToken returns the session cookie value, or "" when absent.
func SessionToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
