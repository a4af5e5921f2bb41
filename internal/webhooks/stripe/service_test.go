package stripewebhook

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arto/mercator-backend/internal/ledger"
	"github.com/arto/mercator-backend/pkg/db/models"
	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
	"github.com/arto/mercator-backend/pkg/logger"
	"github.com/arto/mercator-backend/pkg/printful"
)

type stubPrintful struct {
	requests []printful.OrderRequest
	order    *printful.Order
	err      error
}

func (s *stubPrintful) CreateOrder(_ context.Context, req printful.OrderRequest) (*printful.Order, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

type stubIntents struct {
	intent *stripe.PaymentIntent
	err    error
	calls  int
}

func (s *stubIntents) RetrievePaymentIntent(_ context.Context, _ string) (*stripe.PaymentIntent, error) {
	s.calls++
	return s.intent, s.err
}

func newTestLedger(t *testing.T) (ledger.Service, *gorm.DB) {
	t.Helper()
	dsn := "file:webhook_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ProcessedCheckout{}))
	svc, err := ledger.NewService(db)
	require.NoError(t, err)
	return svc, db
}

func newTestService(t *testing.T, pf *stubPrintful, intents paymentIntentRetriever) (*Service, *gorm.DB) {
	t.Helper()
	ledgerSvc, db := newTestLedger(t)
	svc, err := NewService(ServiceParams{
		Ledger:   ledgerSvc,
		Printful: pf,
		Stripe:   intents,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc, db
}

func completedSession() *CheckoutSession {
	return &CheckoutSession{
		ID:          "cs_test_saxony",
		AmountTotal: 4500,
		Currency:    "usd",
		ShippingDetails: &ShippingDetails{
			Name: "Gerardus Mercator",
			Address: &Address{
				Line1:      "1 Map Lane",
				City:       "Duisburg",
				State:      "NW",
				Country:    "DE",
				PostalCode: "47051",
			},
		},
		Metadata: map[string]string{
			"mapSlug":           "saxony",
			"sizeId":            "1",
			"printfulVariantId": "1",
			"printful_file_url": "https://example.com/portrait.jpg",
		},
	}
}

func TestProcessCheckoutSessionHappyPath(t *testing.T) {
	pf := &stubPrintful{order: &printful.Order{ID: 42, Status: "draft", Costs: printful.OrderCosts{Total: decimal.NewFromFloat(17.5)}}}
	svc, db := newTestService(t, pf, nil)

	result, err := svc.ProcessCheckoutSession(context.Background(), "evt_1", completedSession())
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, "42", result.PrintfulOrderID)

	require.Len(t, pf.requests, 1)
	req := pf.requests[0]
	assert.Equal(t, "cs_test_saxony", req.ExternalID)
	assert.False(t, req.Confirm)
	require.Len(t, req.Items, 1)
	assert.Equal(t, int64(1), req.Items[0].VariantID)
	assert.Equal(t, 1, req.Items[0].Quantity)
	require.Len(t, req.Items[0].Files, 1)
	assert.Equal(t, "https://example.com/portrait.jpg", req.Items[0].Files[0].URL)
	assert.Equal(t, "Gerardus Mercator", req.Recipient.Name)
	assert.Equal(t, "DE", req.Recipient.CountryCode)

	var rows []models.ProcessedCheckout
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "cs_test_saxony", rows[0].SessionID)
	assert.Equal(t, "evt_1", rows[0].EventID)
	assert.Equal(t, "42", rows[0].PrintfulOrderID)
}

func TestProcessCheckoutSessionIdempotent(t *testing.T) {
	pf := &stubPrintful{order: &printful.Order{ID: 42}}
	svc, db := newTestService(t, pf, nil)
	ctx := context.Background()

	first, err := svc.ProcessCheckoutSession(ctx, "evt_1", completedSession())
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := svc.ProcessCheckoutSession(ctx, "evt_2", completedSession())
	require.NoError(t, err)
	assert.True(t, second.Duplicate)

	assert.Len(t, pf.requests, 1)

	var count int64
	require.NoError(t, db.Model(&models.ProcessedCheckout{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProcessCheckoutSessionVariantValidation(t *testing.T) {
	for _, raw := range []string{"0", "-5", "", "abc"} {
		pf := &stubPrintful{order: &printful.Order{ID: 42}}
		svc, db := newTestService(t, pf, nil)

		session := completedSession()
		session.Metadata["printfulVariantId"] = raw

		_, err := svc.ProcessCheckoutSession(context.Background(), "evt_1", session)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "variant %q", raw)
		assert.Equal(t, pkgerrors.CodeInvalidVariant, typed.Code(), "variant %q", raw)
		assert.Empty(t, pf.requests, "variant %q must not reach the provider", raw)

		var count int64
		require.NoError(t, db.Model(&models.ProcessedCheckout{}).Count(&count).Error)
		assert.Zero(t, count, "variant %q must not commit the ledger", raw)
	}
}

func TestProcessCheckoutSessionAddressCompleteness(t *testing.T) {
	clear := []struct {
		name  string
		strip func(*CheckoutSession)
	}{
		{"address1", func(s *CheckoutSession) { s.ShippingDetails.Address.Line1 = "" }},
		{"country_code", func(s *CheckoutSession) { s.ShippingDetails.Address.Country = "" }},
		{"zip", func(s *CheckoutSession) { s.ShippingDetails.Address.PostalCode = "" }},
	}

	for _, tc := range clear {
		t.Run(tc.name, func(t *testing.T) {
			pf := &stubPrintful{order: &printful.Order{ID: 42}}
			svc, _ := newTestService(t, pf, nil)

			session := completedSession()
			tc.strip(session)

			_, err := svc.ProcessCheckoutSession(context.Background(), "evt_1", session)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeIncompleteAddress, typed.Code())
			assert.Empty(t, pf.requests)
		})
	}
}

func TestProcessCheckoutSessionPaymentIntentFallback(t *testing.T) {
	pf := &stubPrintful{order: &printful.Order{ID: 42}}
	intents := &stubIntents{intent: &stripe.PaymentIntent{
		Shipping: &stripe.ShippingDetails{
			Name: "Backup Name",
			Address: &stripe.Address{
				Line1:      "2 Atlas Row",
				City:       "Leuven",
				Country:    "BE",
				PostalCode: "3000",
			},
		},
	}}
	svc, _ := newTestService(t, pf, intents)

	session := completedSession()
	session.ShippingDetails = nil
	session.PaymentIntent = "pi_123"

	result, err := svc.ProcessCheckoutSession(context.Background(), "evt_1", session)
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, 1, intents.calls)

	require.Len(t, pf.requests, 1)
	rec := pf.requests[0].Recipient
	assert.Equal(t, "Backup Name", rec.Name)
	assert.Equal(t, "2 Atlas Row", rec.Address1)
	assert.Equal(t, "BE", rec.CountryCode)
}

func TestProcessCheckoutSessionCustomerDetailsFieldByField(t *testing.T) {
	pf := &stubPrintful{order: &printful.Order{ID: 42}}
	svc, _ := newTestService(t, pf, nil)

	session := completedSession()
	session.ShippingDetails.Name = ""
	session.ShippingDetails.Address.PostalCode = ""
	session.CustomerDetails = &CustomerDetails{
		Name: "Billed Customer",
		Address: &Address{
			Line1:      "ignored street",
			PostalCode: "99999",
		},
	}

	_, err := svc.ProcessCheckoutSession(context.Background(), "evt_1", session)
	require.NoError(t, err)

	rec := pf.requests[0].Recipient
	// Shipping fields win where present; billing fills only the gaps.
	assert.Equal(t, "Billed Customer", rec.Name)
	assert.Equal(t, "1 Map Lane", rec.Address1)
	assert.Equal(t, "99999", rec.Zip)
}

func TestProcessCheckoutSessionProviderFailureLeavesLedgerClean(t *testing.T) {
	pf := &stubPrintful{err: pkgerrors.New(pkgerrors.CodeProviderOrder, "printful order request failed")}
	svc, db := newTestService(t, pf, nil)
	ctx := context.Background()

	_, err := svc.ProcessCheckoutSession(ctx, "evt_1", completedSession())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeProviderOrder, typed.Code())

	var count int64
	require.NoError(t, db.Model(&models.ProcessedCheckout{}).Count(&count).Error)
	assert.Zero(t, count)

	// A retry after the provider recovers places the order normally.
	pf.err = nil
	pf.order = &printful.Order{ID: 7}
	result, err := svc.ProcessCheckoutSession(ctx, "evt_1", completedSession())
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, "7", result.PrintfulOrderID)
}

func TestProcessCheckoutSessionRequiresSessionID(t *testing.T) {
	svc, _ := newTestService(t, &stubPrintful{}, nil)

	_, err := svc.ProcessCheckoutSession(context.Background(), "evt_1", &CheckoutSession{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeMalformedEvent, typed.Code())
}

type stubGuard struct {
	seen    bool
	deleted []string
}

func (g *stubGuard) CheckAndMark(_ context.Context, _ string) (bool, error) { return g.seen, nil }
func (g *stubGuard) Delete(_ context.Context, eventID string) error {
	g.deleted = append(g.deleted, eventID)
	return nil
}

func TestProcessCheckoutSessionEventGuard(t *testing.T) {
	pf := &stubPrintful{order: &printful.Order{ID: 42}}
	ledgerSvc, _ := newTestLedger(t)
	guard := &stubGuard{seen: true}
	svc, err := NewService(ServiceParams{
		Ledger:   ledgerSvc,
		Printful: pf,
		Guard:    guard,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)

	result, err := svc.ProcessCheckoutSession(context.Background(), "evt_1", completedSession())
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.Empty(t, pf.requests)
}

func TestProcessCheckoutSessionGuardReleasedOnFailure(t *testing.T) {
	pf := &stubPrintful{err: pkgerrors.New(pkgerrors.CodeProviderOrder, "provider down")}
	ledgerSvc, _ := newTestLedger(t)
	guard := &stubGuard{}
	svc, err := NewService(ServiceParams{
		Ledger:   ledgerSvc,
		Printful: pf,
		Guard:    guard,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)

	_, err = svc.ProcessCheckoutSession(context.Background(), "evt_1", completedSession())
	require.Error(t, err)
	assert.Equal(t, []string{"evt_1"}, guard.deleted)
}
