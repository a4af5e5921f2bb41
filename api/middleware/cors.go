package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS returns middleware allowing the storefront frontend plus local dev.
func CORS(siteURL string) func(http.Handler) http.Handler {
	origins := []string{"http://localhost:3000"}
	if trimmed := strings.TrimRight(strings.TrimSpace(siteURL), "/"); trimmed != "" {
		origins = append(origins, trimmed)
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Stripe-Signature", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
