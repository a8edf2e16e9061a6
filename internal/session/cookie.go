package session

import (
	"net/http"

	"github.com/google/uuid"
)

const CookieName = "folio_session"

// maxAge keeps the cookie for a year; the stored entries have no expiry.
const maxAge = 365 * 24 * 60 * 60

// ID returns the session id carried by r, or "" if there is none.
func ID(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// Issue sets a cookie carrying a fresh session id and returns the id, even if
// the request already had one. Logins go through Issue so an id planted
// before authentication never becomes an admin session.
func Issue(w http.ResponseWriter, secure bool) string {
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
