package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/bookshop/pkg/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const midtransName = "midtrans"

// MidtransGateway creates Snap transactions and maps Snap webhook payloads.
type MidtransGateway struct {
	client *resty.Client
	logger *zap.Logger
}

func NewMidtransGateway(cfg *config.MidtransConfig, logger *zap.Logger) *MidtransGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetBasicAuth(cfg.ServerKey, "").
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &MidtransGateway{
		client: client,
		logger: logger.Named("midtrans"),
	}
}

func (g *MidtransGateway) Name() string {
	return midtransName
}

func (g *MidtransGateway) CreatePayment(ctx context.Context, externalID string, amount int64, opts ChargeOptions) (*ChargeResponse, error) {
	name := opts.CustomerName
	if name == "" {
		name = "Customer"
	}
	email := opts.CustomerEmail
	if email == "" {
		email = "customer@example.com"
	}

	body := map[string]interface{}{
		"transaction_details": map[string]interface{}{
			"order_id":     externalID,
			"gross_amount": amount,
		},
		"customer_details": map[string]interface{}{
			"first_name": name,
			"email":      email,
			"phone":      opts.Phone,
		},
		"expiry": map[string]interface{}{
			"unit":     "minute",
			"duration": 60,
		},
	}

	var result map[string]interface{}
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/snap/v1/transactions")
	if err != nil {
		return nil, fmt.Errorf("midtrans request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("midtrans returned %d: %s", resp.StatusCode(), resp.String())
	}

	g.logger.Info("Midtrans Snap transaction created",
		zap.String("external_id", externalID),
		zap.Int64("amount", amount))

	return &ChargeResponse{
		Status:     "pending",
		PaymentURL: stringField(result, "redirect_url"),
		Reference:  externalID,
		Raw:        result,
	}, nil
}

func (g *MidtransGateway) ExtractReference(payload map[string]interface{}) string {
	return stringField(payload, "order_id")
}

func (g *MidtransGateway) ExtractStatus(payload map[string]interface{}) string {
	status := stringField(payload, "transaction_status")
	if status == "" {
		status = "pending"
	}
	return strings.ToLower(status)
}

func (g *MidtransGateway) ExtractPaymentMethod(payload map[string]interface{}) string {
	return stringField(payload, "payment_type")
}
