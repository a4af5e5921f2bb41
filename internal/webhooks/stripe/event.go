package stripewebhook

import (
	"bytes"
	"encoding/json"
)

// EventTypeCheckoutCompleted is the only event type that drives fulfillment.
const EventTypeCheckoutCompleted = "checkout.session.completed"

// Address mirrors the address sub-object Stripe embeds in sessions,
// payment intents, and customer details.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// ShippingDetails is the recipient block attached to a session or payment intent.
type ShippingDetails struct {
	Name    string   `json:"name"`
	Address *Address `json:"address"`
}

// CustomerDetails carries the payer's billing fields, the last-resort
// source for recipient data.
type CustomerDetails struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Address *Address `json:"address"`
}

// PaymentIntentRef decodes Stripe's expandable payment_intent field, which
// arrives as a bare id string in webhook payloads but as an object when
// expanded.
type PaymentIntentRef string

func (p *PaymentIntentRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*p = PaymentIntentRef(id)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*p = PaymentIntentRef(obj.ID)
	return nil
}

// CheckoutSession is the slice of Stripe's session object the pipeline
// consumes, decoded from the raw event payload.
type CheckoutSession struct {
	ID              string            `json:"id"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	PaymentIntent   PaymentIntentRef  `json:"payment_intent"`
	ShippingDetails *ShippingDetails  `json:"shipping_details"`
	CustomerDetails *CustomerDetails  `json:"customer_details"`
	Metadata        map[string]string `json:"metadata"`
}
