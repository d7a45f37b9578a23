package httpx

import (
	"net/http"
	"time"
)

// Middleware wraps an http.Handler. Chain applies wrappers so the first
// argument is outermost: Chain(h, a, b) serves a(b(h)).
type Middleware func(http.Handler) http.Handler

func Chain(h http.Handler, m ...Middleware) http.Handler {
	for i := len(m) - 1; i >= 0; i-- {
		h = m[i](h)
	}
	return h
}

// WithBodyLimit caps request bodies. Every write the dashboard accepts is a
// small JSON document (sign-in token, create payload, transition id), so an
// oversized body surfaces as a decode error on the affected handler.
func WithBodyLimit(limitBytes int64) Middleware {
	if limitBytes <= 0 {
		limitBytes = 1 << 20
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limitBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// WithTimeout bounds the whole request, remote API round trip included. The
// 503 body follows the {"msg"} contract so the frontend can surface it like
// any other error notification.
func WithTimeout(d time.Duration) Middleware {
	if d <= 0 {
		d = 15 * time.Second
	}
	body := `{"msg":"o servidor demorou demais para responder"}`
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, body)
	}
}
