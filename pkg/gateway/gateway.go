// Package gateway provides a uniform contract over external payment
// providers. Each provider normalizes its own payload shape; callers never
// branch on provider internals beyond picking an instance from the registry.
package gateway

import (
	"context"

	"github.com/example/bookshop/pkg/errs"
)

// ChargeOptions carries optional customer detail forwarded to the provider.
type ChargeOptions struct {
	CustomerName  string
	CustomerEmail string
	Phone         string
	Description   string
}

// ChargeResponse is the normalized result of creating a charge. Raw keeps
// the verbatim provider response for the payment meta blob.
type ChargeResponse struct {
	Status     string                 `json:"status"`
	PaymentURL string                 `json:"payment_url"`
	Reference  string                 `json:"payment_reference"`
	Raw        map[string]interface{} `json:"raw"`
}

type Gateway interface {
	Name() string

	// CreatePayment creates a charge identified by the caller-generated
	// external id and returns a redirect/invoice URL for the customer.
	CreatePayment(ctx context.Context, externalID string, amount int64, opts ChargeOptions) (*ChargeResponse, error)

	// ExtractReference pulls the provider correlation id out of a webhook
	// payload; empty string when the payload carries none.
	ExtractReference(payload map[string]interface{}) string

	// ExtractStatus pulls the lowercase provider status string.
	ExtractStatus(payload map[string]interface{}) string

	// ExtractPaymentMethod pulls the provider-specific payment method
	// field. The field name differs per provider, so the knowledge lives
	// here rather than in the orchestrator.
	ExtractPaymentMethod(payload map[string]interface{}) string
}

// Registry is the closed set of configured gateways, built at startup.
type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	m := make(map[string]Gateway, len(gateways))
	for _, gw := range gateways {
		m[gw.Name()] = gw
	}
	return &Registry{gateways: m}
}

// Resolve fails fast with ErrUnknownGateway instead of handing back a nil
// gateway.
func (r *Registry) Resolve(name string) (Gateway, error) {
	gw, ok := r.gateways[name]
	if !ok {
		return nil, errs.ErrUnknownGateway
	}
	return gw, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.gateways))
	for name := range r.gateways {
		names = append(names, name)
	}
	return names
}

func stringField(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
