package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arto/mercator-backend/api/middleware"
	"github.com/arto/mercator-backend/api/responses"
	"github.com/arto/mercator-backend/api/validators"
	"github.com/arto/mercator-backend/internal/catalog"
	"github.com/arto/mercator-backend/pkg/auth/session"
	"github.com/arto/mercator-backend/pkg/db/models"
	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
	"github.com/arto/mercator-backend/pkg/logger"
)

// mapSummary is the public storefront listing shape. Print file URLs and
// size pricing stay out of the unauthenticated list response.
type mapSummary struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Year  string `json:"year"`
	Image string `json:"image"`
}

func summarizeMaps(maps []models.Map) []mapSummary {
	out := make([]mapSummary, 0, len(maps))
	for _, m := range maps {
		out = append(out, mapSummary{
			ID:    m.DisplayID,
			Slug:  m.Slug,
			Title: m.Title,
			Year:  m.Year,
			Image: m.Image,
		})
	}
	return out
}

// ListMaps serves the public summary list, or the full editor records when
// ?full=1 is passed with a valid admin session.
func ListMaps(svc catalog.Service, sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		full := r.URL.Query().Get("full") == "1"
		if full && !middleware.IsAdmin(sessions, r) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin session required"))
			return
		}

		maps, err := svc.ListMaps(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if full {
			responses.WriteSuccess(w, maps)
			return
		}
		responses.WriteSuccess(w, summarizeMaps(maps))
	}
}

func GetMap(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		slug := chi.URLParam(r, "slug")
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithSlug(ctx, slug)
		}

		m, err := svc.GetMap(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, m)
	}
}

// UpsertMap replaces or creates a map record. Routed behind the admin
// session middleware.
func UpsertMap(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload catalog.MapInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m, err := svc.UpsertMap(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, m)
	}
}
