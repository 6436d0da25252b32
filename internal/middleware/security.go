package middleware

import "net/http"

const storePageCSP = "default-src 'self'; img-src 'self' data:; script-src 'self'; style-src 'self'; " +
	"form-action 'self'; base-uri 'none'; object-src 'none'"

// SecurityHeaders sets the headers every response carries.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// StorePageCSP restricts the store page to its own script and stylesheet.
// Games embed the store, so framing is left open.
func StorePageCSP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", storePageCSP)
		next.ServeHTTP(w, r)
	})
}
