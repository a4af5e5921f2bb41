package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v84/webhook"

	"github.com/arto/mercator-backend/api/responses"
	stripewebhook "github.com/arto/mercator-backend/internal/webhooks/stripe"
	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
	"github.com/arto/mercator-backend/pkg/logger"
	"github.com/arto/mercator-backend/pkg/metrics"
)

type StripeWebhookService interface {
	ProcessCheckoutSession(ctx context.Context, eventID string, session *stripewebhook.CheckoutSession) (*stripewebhook.Result, error)
}

type stripeClient interface {
	SigningSecret() string
}

// Stripe raw bodies beyond this size are not legitimate checkout events.
const maxWebhookBody = 1 << 20

// StripeWebhook verifies and dispatches checkout completion events.
// Responses use the flat wire shapes the processor's retry machinery keys
// off: 2xx acks, anything else triggers redelivery.
func StripeWebhook(svc StripeWebhookService, client stripeClient, m *metrics.StorefrontMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteFlatError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if client == nil {
			responses.WriteFlatError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stripe client unavailable"))
			return
		}

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			responses.WriteFlatError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		sigHeader := r.Header.Get("Stripe-Signature")
		event, err := webhook.ConstructEvent(payload, sigHeader, client.SigningSecret())
		if err != nil {
			responses.WriteFlatError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInvalidSignature, err, "webhook signature verification failed"))
			return
		}

		if logg != nil {
			ctx = logg.WithEventID(ctx, event.ID)
		}

		if string(event.Type) != stripewebhook.EventTypeCheckoutCompleted {
			responses.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
			return
		}

		var session stripewebhook.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			responses.WriteFlatError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeMalformedEvent, err, "decode checkout session"))
			return
		}
		if session.ID == "" {
			responses.WriteFlatError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeMalformedEvent, "checkout session id missing"))
			return
		}

		start := time.Now()
		result, err := svc.ProcessCheckoutSession(ctx, event.ID, &session)
		if err != nil {
			m.ObserveWebhookDuration("failed", time.Since(start))
			responses.WriteFlatError(ctx, logg, w, err)
			return
		}

		if result.Duplicate {
			m.ObserveWebhookDuration("duplicate", time.Since(start))
			responses.WriteJSON(w, http.StatusOK, map[string]bool{"received": true, "duplicate": true})
			return
		}

		m.ObserveWebhookDuration("processed", time.Since(start))
		if logg != nil {
			logg.Info(ctx, "checkout session fulfilled")
		}
		responses.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
	}
}
