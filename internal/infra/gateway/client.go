// Package gateway implements the payment collaborator boundary: a narrow
// HTTP client for the real mobile-money gateway and a deterministic stub for
// tests and local runs.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"glowbook/internal/pkg/config"
	"glowbook/internal/pkg/errs"
	"glowbook/internal/usecase/commands"

	"github.com/google/uuid"
)

var ErrGatewayRequest = errs.New("gateway request failed")

// Client talks to the payment gateway over HTTP. Every call carries an
// explicit timeout so a slow gateway can never stall a request; the caller's
// idempotency key rides in a header so repeats are safe.
type Client struct {
	cfg  config.GatewayConfig
	http *http.Client
}

func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type initiateBody struct {
	MerchantID  string `json:"merchant_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	PayerPhone  string `json:"payer_phone"`
	Method      string `json:"method"`
}

type initiateResponse struct {
	GatewayTxnID string `json:"gateway_txn_id"`
	PollURL      string `json:"poll_url"`
}

type pollResponse struct {
	Status string `json:"status"`
}

type refundBody struct {
	MerchantID  string `json:"merchant_id"`
	AmountCents int64  `json:"amount_cents"`
}

type refundResponse struct {
	RefundTxnID string `json:"refund_txn_id"`
	Status      string `json:"status"`
}

func (c *Client) Initiate(ctx context.Context, req commands.GatewayInitiateRequest) (*commands.GatewayInitiateResult, error) {
	body := initiateBody{
		MerchantID:  c.cfg.MerchantID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		PayerPhone:  req.PayerPhone,
		Method:      string(req.Method),
	}
	var resp initiateResponse
	if err := c.post(ctx, "/v1/collections", req.IdempotencyKey, body, &resp); err != nil {
		return nil, err
	}
	return &commands.GatewayInitiateResult{
		GatewayTxnID: resp.GatewayTxnID,
		PollURL:      resp.PollURL,
	}, nil
}

func (c *Client) PollStatus(ctx context.Context, gatewayTxnID string) (*commands.GatewayPollResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/v1/collections/"+gatewayTxnID, nil)
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayRequest)
	}
	c.setHeaders(httpReq, uuid.Nil)

	var resp pollResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return &commands.GatewayPollResult{Status: commands.GatewayStatus(resp.Status)}, nil
}

func (c *Client) Refund(ctx context.Context, gatewayTxnID string, amountCents int64, idempotencyKey uuid.UUID) (*commands.GatewayRefundResult, error) {
	body := refundBody{MerchantID: c.cfg.MerchantID, AmountCents: amountCents}
	var resp refundResponse
	if err := c.post(ctx, "/v1/collections/"+gatewayTxnID+"/refunds", idempotencyKey, body, &resp); err != nil {
		return nil, err
	}
	return &commands.GatewayRefundResult{
		RefundTxnID: resp.RefundTxnID,
		Status:      commands.GatewayStatus(resp.Status),
	}, nil
}

func (c *Client) post(ctx context.Context, path string, idempotencyKey uuid.UUID, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return errs.Mark(err, ErrGatewayRequest)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return errs.Mark(err, ErrGatewayRequest)
	}
	c.setHeaders(httpReq, idempotencyKey)
	return c.do(httpReq, out)
}

func (c *Client) setHeaders(req *http.Request, idempotencyKey uuid.UUID) {
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	if idempotencyKey != uuid.Nil {
		req.Header.Set("Idempotency-Key", idempotencyKey.String())
	}
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Mark(err, ErrGatewayRequest)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.Mark(fmt.Errorf("gateway returned %d", resp.StatusCode), ErrGatewayRequest)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Mark(err, ErrGatewayRequest)
	}
	return nil
}
