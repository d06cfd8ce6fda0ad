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

const xenditName = "xendit"

// XenditGateway creates invoices and maps invoice webhook payloads.
type XenditGateway struct {
	client *resty.Client
	logger *zap.Logger
}

func NewXenditGateway(cfg *config.XenditConfig, logger *zap.Logger) *XenditGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetBasicAuth(cfg.SecretKey, "").
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &XenditGateway{
		client: client,
		logger: logger.Named("xendit"),
	}
}

func (g *XenditGateway) Name() string {
	return xenditName
}

func (g *XenditGateway) CreatePayment(ctx context.Context, externalID string, amount int64, opts ChargeOptions) (*ChargeResponse, error) {
	description := opts.Description
	if description == "" {
		description = fmt.Sprintf("Payment for %s", externalID)
	}

	body := map[string]interface{}{
		"external_id":      externalID,
		"amount":           amount,
		"description":      description,
		"currency":         "IDR",
		"invoice_duration": 3600,
	}
	if opts.CustomerEmail != "" {
		body["payer_email"] = opts.CustomerEmail
	}

	var result map[string]interface{}
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/v2/invoices")
	if err != nil {
		return nil, fmt.Errorf("xendit request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("xendit returned %d: %s", resp.StatusCode(), resp.String())
	}

	g.logger.Info("Xendit invoice created",
		zap.String("external_id", externalID),
		zap.Int64("amount", amount))

	return &ChargeResponse{
		Status:     "pending",
		PaymentURL: stringField(result, "invoice_url"),
		Reference:  externalID,
		Raw:        result,
	}, nil
}

func (g *XenditGateway) ExtractReference(payload map[string]interface{}) string {
	return stringField(payload, "external_id")
}

func (g *XenditGateway) ExtractStatus(payload map[string]interface{}) string {
	status := stringField(payload, "status")
	if status == "" {
		status = "pending"
	}
	return strings.ToLower(status)
}

// Xendit reports the method under payment_method for most channels and
// channel_code for others.
func (g *XenditGateway) ExtractPaymentMethod(payload map[string]interface{}) string {
	if method := stringField(payload, "payment_method"); method != "" {
		return method
	}
	return stringField(payload, "channel_code")
}
