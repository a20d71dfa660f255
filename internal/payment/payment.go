// Package payment isolates the payment-processor integration behind a small
// Provider interface. The live Stripe client, the mock used when no
// credentials are configured, and the unreachable-processor fallback policy
// all live here so the checkout flow never has to care which one it got.
package payment

import "errors"

// MockPrefix marks locally synthesized intents; CODPrefix marks
// cash-on-delivery references. Order creation trusts both without asking the
// processor.
const (
	MockPrefix = "pi_mock_"
	CODPrefix  = "cod_"
)

const StatusSucceeded = "succeeded"

var ErrIntentNotFound = errors.New("payment intent not found")

// Intent is the processor's handle for a pending charge. Amount is in minor
// units (cents).
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Metadata     map[string]string
	TestMode     bool
}

type Provider interface {
	// CreateIntent requests a payment handle for amount minor units.
	CreateIntent(amount int64, metadata map[string]string) (Intent, error)
	// GetIntent retrieves an intent by id to check its status.
	GetIntent(id string) (Intent, error)
}
