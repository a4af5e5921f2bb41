package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/arto/mercator-backend/pkg/db/models"
	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
	"github.com/arto/mercator-backend/pkg/logger"
	"github.com/arto/mercator-backend/pkg/metrics"
)

// PlaceholderPreviewURL is manufactured when a map carries no print file at
// all. It must stay resolvable: the fulfillment provider downloads it.
const PlaceholderPreviewURL = "https://raw.githubusercontent.com/Arto/mercator-assets/main/preview.jpg"

// SessionCreator is the payment-processor surface the service needs.
type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// CatalogReader resolves the product being purchased.
type CatalogReader interface {
	GetMap(ctx context.Context, slug string) (*models.Map, error)
}

// Input is the client's product selection. Price is never accepted from the
// client; it is looked up server-side.
type Input struct {
	MapSlug string `json:"mapSlug" validate:"required"`
	SizeID  string `json:"sizeId" validate:"required"`
}

// Service opens hosted payment sessions for catalog selections.
type Service interface {
	CreateSession(ctx context.Context, input Input) (string, error)
}

// Config captures the storefront settings baked into every session.
type Config struct {
	StoreName        string
	Currency         string
	AllowedCountries []string
	SuccessURL       string
	CancelURL        string
}

type service struct {
	catalog  CatalogReader
	sessions SessionCreator
	cfg      Config
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics
}

// NewService constructs the checkout service.
func NewService(catalogSvc CatalogReader, sessions SessionCreator, cfg Config, logg *logger.Logger, m *metrics.StorefrontMetrics) (Service, error) {
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		catalog:  catalogSvc,
		sessions: sessions,
		cfg:      cfg,
		logg:     logg,
		metrics:  m,
	}, nil
}

func (s *service) CreateSession(ctx context.Context, input Input) (string, error) {
	url, err := s.createSession(ctx, input)
	if err != nil {
		s.metrics.IncCheckoutSession("failed")
		return "", err
	}
	s.metrics.IncCheckoutSession("created")
	return url, nil
}

func (s *service) createSession(ctx context.Context, input Input) (string, error) {
	if s.sessions == nil {
		return "", pkgerrors.New(pkgerrors.CodeConfiguration, "payment processor is not configured")
	}
	if strings.TrimSpace(s.cfg.SuccessURL) == "" || strings.TrimSpace(s.cfg.CancelURL) == "" {
		return "", pkgerrors.New(pkgerrors.CodeConfiguration, "site base URL is not configured")
	}

	m, err := s.catalog.GetMap(ctx, input.MapSlug)
	if err != nil {
		return "", err
	}

	sizeID := strings.TrimSpace(input.SizeID)
	size, ok := m.Sizes.ByID(sizeID)
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeInvalidSelection, fmt.Sprintf("unknown size %q for map %q", sizeID, m.Slug)).
			WithDetails(map[string]string{"mapSlug": m.Slug, "sizeId": sizeID})
	}

	printURL := m.PrintFiles[size.Ratio]
	if printURL == "" {
		printURL = m.PrintImage
	}
	if printURL == "" {
		printURL = PlaceholderPreviewURL
	}

	amount := decimal.NewFromFloat(size.Price).Shift(2).Round(0).IntPart()

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(s.cfg.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:   stripe.String(fmt.Sprintf("%s: %s", s.cfg.StoreName, m.Title)),
						Images: stripe.StringSlice([]string{printURL}),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(s.cfg.AllowedCountries),
		},
		ShippingOptions: []*stripe.CheckoutSessionShippingOptionParams{
			{
				ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
					Type: stripe.String("fixed_amount"),
					FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripe.Int64(0),
						Currency: stripe.String(s.cfg.Currency),
					},
					DisplayName: stripe.String("Free Worldwide Shipping"),
				},
			},
		},
	}
	params.AddMetadata("mapSlug", m.Slug)
	params.AddMetadata("sizeId", size.ID)
	params.AddMetadata("printfulVariantId", size.ID)
	params.AddMetadata("printful_file_url", printURL)

	sess, err := s.sessions.CreateCheckoutSession(ctx, params)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stripe: create checkout session")
	}
	if sess == nil || sess.URL == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "stripe returned no redirect url")
	}

	sessCtx := s.logg.WithSessionID(ctx, sess.ID)
	s.logg.Info(sessCtx, fmt.Sprintf("checkout session opened for %s/%s amount=%d", m.Slug, size.ID, amount))

	return sess.URL, nil
}
