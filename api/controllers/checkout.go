package controllers

import (
	"net/http"

	"github.com/arto/mercator-backend/api/responses"
	"github.com/arto/mercator-backend/api/validators"
	"github.com/arto/mercator-backend/internal/checkout"
	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
	"github.com/arto/mercator-backend/pkg/logger"
)

// CreateCheckout starts a hosted payment session for one map/size pair.
// Response is the flat `{url}` shape the storefront frontend expects.
func CreateCheckout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteFlatError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkout.Input
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteFlatError(r.Context(), logg, w, err)
			return
		}

		url, err := svc.CreateSession(r.Context(), payload)
		if err != nil {
			responses.WriteFlatError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
	}
}
