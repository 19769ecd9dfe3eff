// Package khalti implements the PaymentGateway interface against the
// Khalti ePayment API (initiate + lookup).
package khalti

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"voltcart/config"
	"voltcart/internal/domain/service"
	"voltcart/internal/errors"
)

const defaultTimeout = 10 * time.Second

// Client talks to the Khalti ePayment API. Amounts are always in paisa.
type Client struct {
	baseURL    string
	secretKey  string
	returnURL  string
	websiteURL string
	httpClient *http.Client
}

// NewClient is the constructor for Client.
func NewClient(cfg *config.Config) (service.PaymentGateway, error) {
	if cfg.Khalti == nil || cfg.Khalti.BaseURL == "" || cfg.Khalti.SecretKey == "" {
		return nil, errors.New("khalti base url and secret key must be provided")
	}

	timeout := defaultTimeout
	if cfg.Khalti.Timeout > 0 {
		timeout = cfg.Khalti.Timeout
	}

	return &Client{
		baseURL:    cfg.Khalti.BaseURL,
		secretKey:  cfg.Khalti.SecretKey,
		returnURL:  cfg.Khalti.ReturnURL,
		websiteURL: cfg.Khalti.WebsiteURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// initiateRequest is the JSON body of POST /epayment/initiate/.
type initiateRequest struct {
	ReturnURL         string       `json:"return_url"`
	WebsiteURL        string       `json:"website_url"`
	Amount            int64        `json:"amount"`
	PurchaseOrderID   string       `json:"purchase_order_id"`
	PurchaseOrderName string       `json:"purchase_order_name"`
	CustomerInfo      customerInfo `json:"customer_info"`
}

type customerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// initiateResponse is Khalti's answer to an initiation.
type initiateResponse struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
	ExpiresAt  string `json:"expires_at"`
}

// lookupResponse is Khalti's answer to a lookup.
type lookupResponse struct {
	Pidx          string `json:"pidx"`
	TotalAmount   int64  `json:"total_amount"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	Refunded      bool   `json:"refunded"`
}

// Initiate opens a payment attempt with Khalti and returns the handoff.
func (c *Client) Initiate(ctx context.Context, req service.PaymentInitiation) (*service.PaymentHandoff, error) {
	body := initiateRequest{
		ReturnURL:         c.returnURL,
		WebsiteURL:        c.websiteURL,
		Amount:            req.AmountPaisa,
		PurchaseOrderID:   req.PurchaseOrderID,
		PurchaseOrderName: req.PurchaseOrderName,
		CustomerInfo: customerInfo{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
	}

	var resp initiateResponse
	if err := c.post(ctx, "/epayment/initiate/", body, &resp); err != nil {
		return nil, err
	}

	if resp.Pidx == "" || resp.PaymentURL == "" {
		return nil, errors.Wrap(service.ErrGatewayRejected, "initiate response missing pidx or payment_url")
	}

	return &service.PaymentHandoff{
		Pidx:       resp.Pidx,
		PaymentURL: resp.PaymentURL,
		ExpiresAt:  resp.ExpiresAt,
	}, nil
}

// Lookup asks Khalti for the authoritative state of a payment attempt.
func (c *Client) Lookup(ctx context.Context, pidx string) (*service.PaymentStatus, error) {
	var resp lookupResponse
	if err := c.post(ctx, "/epayment/lookup/", map[string]string{"pidx": pidx}, &resp); err != nil {
		return nil, err
	}

	return &service.PaymentStatus{
		Pidx:          resp.Pidx,
		Status:        resp.Status,
		TransactionID: resp.TransactionID,
		AmountPaisa:   resp.TotalAmount,
		Refunded:      resp.Refunded,
	}, nil
}

// post sends an authenticated JSON request and decodes the response.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "failed to marshal khalti request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to build khalti request")
	}
	req.Header.Set("Authorization", "Key "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "khalti request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Wrapf(service.ErrGatewayRejected, "khalti returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode khalti response")
	}

	return nil
}
