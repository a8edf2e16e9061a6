package web

import (
	"net/http"
	"strings"
)

// isHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func isHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// redirect sends the browser to url: through Hx-Redirect for htmx requests,
// a 303 otherwise.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if isHTMX(r) {
		w.Header().Set("Hx-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
