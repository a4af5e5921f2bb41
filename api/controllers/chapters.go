package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arto/mercator-backend/api/responses"
	"github.com/arto/mercator-backend/api/validators"
	"github.com/arto/mercator-backend/internal/catalog"
	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
	"github.com/arto/mercator-backend/pkg/logger"
)

func ListChapters(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		chapters, err := svc.ListChapters(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, chapters)
	}
}

func GetChapter(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
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

		c, err := svc.GetChapter(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, c)
	}
}

// UpsertChapter replaces or creates a chapter. Routed behind the admin
// session middleware.
func UpsertChapter(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload catalog.ChapterInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := svc.UpsertChapter(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, c)
	}
}
