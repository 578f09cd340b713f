package api

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Thin re-exports of the chi middleware stack, so route configuration
// reads in terms of this package and swapping an implementation touches
// one file.

func RequestID(next http.Handler) http.Handler {
	return middleware.RequestID(next)
}

func RealIP(next http.Handler) http.Handler {
	return middleware.RealIP(next)
}

func Logger(next http.Handler) http.Handler {
	return middleware.Logger(next)
}

func Recoverer(next http.Handler) http.Handler {
	return middleware.Recoverer(next)
}
