package stripewebhook

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/arto/mercator-backend/internal/ledger"
	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
	"github.com/arto/mercator-backend/pkg/logger"
	"github.com/arto/mercator-backend/pkg/metrics"
	"github.com/arto/mercator-backend/pkg/printful"
)

type paymentIntentRetriever interface {
	RetrievePaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
}

type orderCreator interface {
	CreateOrder(ctx context.Context, req printful.OrderRequest) (*printful.Order, error)
}

type eventGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

// Result is the pipeline outcome surfaced in the webhook response body.
type Result struct {
	Duplicate       bool
	PrintfulOrderID string
}

// ServiceParams wires the pipeline's collaborators. Stripe and Guard are
// optional; the rest are required.
type ServiceParams struct {
	Ledger   ledger.Service
	Printful orderCreator
	Stripe   paymentIntentRetriever
	Guard    eventGuard
	Logger   *logger.Logger
	Metrics  *metrics.StorefrontMetrics
}

// Service turns a completed checkout session into exactly one draft
// fulfillment order, guarded by the idempotency ledger.
type Service struct {
	ledger   ledger.Service
	printful orderCreator
	stripe   paymentIntentRetriever
	guard    eventGuard
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ledger required")
	}
	if params.Printful == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "printful client required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		ledger:   params.Ledger,
		printful: params.Printful,
		stripe:   params.Stripe,
		guard:    params.Guard,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// ProcessCheckoutSession runs the fulfillment pipeline for one delivery of a
// checkout.session.completed event. Linear with early exits: every guard
// failure is terminal for this invocation; redelivery is the caller's job.
func (s *Service) ProcessCheckoutSession(ctx context.Context, eventID string, session *CheckoutSession) (*Result, error) {
	if session == nil || strings.TrimSpace(session.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeMalformedEvent, "checkout session id missing")
	}

	ctx = s.logg.WithEventID(ctx, eventID)
	ctx = s.logg.WithSessionID(ctx, session.ID)

	if s.guard != nil && eventID != "" {
		seen, err := s.guard.CheckAndMark(ctx, eventID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "event guard")
		}
		if seen {
			s.metrics.IncWebhookEvent("duplicate")
			return &Result{Duplicate: true}, nil
		}
	}

	result, err := s.fulfill(ctx, eventID, session)
	if err != nil {
		if s.guard != nil && eventID != "" {
			_ = s.guard.Delete(ctx, eventID)
		}
		s.metrics.IncWebhookEvent("failed")
		return nil, err
	}
	if result.Duplicate {
		s.metrics.IncWebhookEvent("duplicate")
	} else {
		s.metrics.IncWebhookEvent("processed")
	}
	return result, nil
}

func (s *Service) fulfill(ctx context.Context, eventID string, session *CheckoutSession) (*Result, error) {
	// The exactly-once boundary: checked before any external side effect.
	processed, err := s.ledger.Has(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if processed {
		s.logg.Info(ctx, "checkout session already fulfilled, skipping")
		return &Result{Duplicate: true}, nil
	}

	recipient := s.resolveRecipient(ctx, session)

	variantID, err := parseVariantID(session.Metadata)
	if err != nil {
		return nil, err
	}

	artworkURL := ResolveArtworkURL(session.Metadata)

	if missing := missingAddressFields(recipient); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeIncompleteAddress, "recipient address incomplete").
			WithDetails(map[string][]string{"missing": missing})
	}

	order, err := s.printful.CreateOrder(ctx, printful.OrderRequest{
		ExternalID: session.ID,
		Recipient:  recipient,
		Items: []printful.OrderItem{
			{
				VariantID: variantID,
				Quantity:  1,
				Files:     []printful.OrderFile{{URL: artworkURL}},
			},
		},
		Confirm: false,
	})
	if err != nil {
		s.metrics.IncOrder("failed")
		return nil, err
	}
	s.metrics.IncOrder("created")

	orderID := ""
	if order != nil && order.ID > 0 {
		orderID = strconv.FormatInt(order.ID, 10)
	}

	// Committed only after the provider accepted the order, so the ledger
	// never claims success for an order that was not placed.
	if err := s.ledger.Record(ctx, ledger.Entry{
		SessionID:       session.ID,
		EventID:         eventID,
		PrintfulOrderID: orderID,
		ProcessedAt:     time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	s.logEconomics(ctx, session, order)

	return &Result{PrintfulOrderID: orderID}, nil
}

// resolveRecipient builds the shipping destination from the best available
// source: session shipping details, then the payment intent's shipping block,
// then the payer's billing fields, each field independently.
func (s *Service) resolveRecipient(ctx context.Context, session *CheckoutSession) printful.Recipient {
	shipping := session.ShippingDetails
	if (shipping == nil || shipping.Address == nil) && session.PaymentIntent != "" && s.stripe != nil {
		intent, err := s.stripe.RetrievePaymentIntent(ctx, string(session.PaymentIntent))
		if err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("payment intent fetch failed: %v", err))
		} else if intent != nil && intent.Shipping != nil {
			converted := &ShippingDetails{Name: intent.Shipping.Name}
			if addr := intent.Shipping.Address; addr != nil {
				converted.Address = &Address{
					Line1:      addr.Line1,
					Line2:      addr.Line2,
					City:       addr.City,
					State:      addr.State,
					Country:    addr.Country,
					PostalCode: addr.PostalCode,
				}
			}
			shipping = converted
		}
	}

	var recipient printful.Recipient
	if shipping != nil {
		recipient.Name = shipping.Name
		if shipping.Address != nil {
			recipient.Address1 = shipping.Address.Line1
			recipient.City = shipping.Address.City
			recipient.StateCode = shipping.Address.State
			recipient.CountryCode = shipping.Address.Country
			recipient.Zip = shipping.Address.PostalCode
		}
	}

	if details := session.CustomerDetails; details != nil {
		if recipient.Name == "" {
			recipient.Name = details.Name
		}
		if addr := details.Address; addr != nil {
			if recipient.Address1 == "" {
				recipient.Address1 = addr.Line1
			}
			if recipient.City == "" {
				recipient.City = addr.City
			}
			if recipient.StateCode == "" {
				recipient.StateCode = addr.State
			}
			if recipient.CountryCode == "" {
				recipient.CountryCode = addr.Country
			}
			if recipient.Zip == "" {
				recipient.Zip = addr.PostalCode
			}
		}
	}

	if recipient.Name == "" {
		recipient.Name = "Customer"
	}
	return recipient
}

func parseVariantID(metadata map[string]string) (int64, error) {
	raw := strings.TrimSpace(metadata["printfulVariantId"])
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidVariant, "printfulVariantId missing from session metadata")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidVariant, fmt.Sprintf("printfulVariantId %q is not a positive integer", raw))
	}
	return id, nil
}

func missingAddressFields(r printful.Recipient) []string {
	var missing []string
	if strings.TrimSpace(r.Address1) == "" {
		missing = append(missing, "address1")
	}
	if strings.TrimSpace(r.CountryCode) == "" {
		missing = append(missing, "country_code")
	}
	if strings.TrimSpace(r.Zip) == "" {
		missing = append(missing, "zip")
	}
	return missing
}

// logEconomics reports the unit economics of the sale for operator
// visibility. Diagnostic only; must never abort the pipeline.
func (s *Service) logEconomics(ctx context.Context, session *CheckoutSession, order *printful.Order) {
	defer func() {
		if r := recover(); r != nil {
			s.logg.Warn(ctx, fmt.Sprintf("economics logging panicked: %v", r))
		}
	}()

	retail := decimal.NewFromInt(session.AmountTotal).Div(decimal.NewFromInt(100))
	fee := retail.Mul(decimal.NewFromFloat(0.05)).Add(decimal.NewFromFloat(0.05))

	cost := decimal.Zero
	if order != nil {
		cost = order.Costs.Total
	}
	net := retail.Sub(fee).Sub(cost)

	ctx = s.logg.WithFields(ctx, map[string]any{
		"retail":        retail.StringFixed(2),
		"processor_fee": fee.StringFixed(2),
		"provider_cost": cost.StringFixed(2),
		"net_margin":    net.StringFixed(2),
	})
	s.logg.Info(ctx, "order economics")
}
