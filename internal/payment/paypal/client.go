package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skilloop/skilloop-api/internal/httperr"
)

const (
	sandboxBaseURL = "https://api-m.sandbox.paypal.com"
	liveBaseURL    = "https://api-m.paypal.com"

	// Fixed conversion applied before orders reach PayPal; the platform
	// prices in INR but settles PayPal orders in USD.
	INRToUSDRate = 0.012
)

type Client struct {
	clientID string
	secret   string
	baseURL  string
	http     *http.Client
}

func New(clientID, secret, env string) *Client {
	base := sandboxBaseURL
	if env == "live" {
		base = liveBaseURL
	}

	return &Client{
		clientID: clientID,
		secret:   secret,
		baseURL:  base,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// USDFromINR renders the USD value PayPal expects, two decimals.
func USDFromINR(amountINR float64) string {
	return fmt.Sprintf("%.2f", amountINR*INRToUSDRate)
}

// ===============================
// Types
// ===============================

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links"`
}

// ApprovalLink is where the payer finishes checkout.
func (o *Order) ApprovalLink() (string, error) {
	for _, l := range o.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			return l.Href, nil
		}
	}
	return "", httperr.ErrBusiness("missing_approval_link")
}

type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`

	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CaptureID digs out the capture transaction id, falling back to the
// order id when the provider response omits the nested block.
func (c *Capture) CaptureID() string {
	for _, pu := range c.PurchaseUnits {
		for _, cap := range pu.Payments.Captures {
			if cap.ID != "" {
				return cap.ID
			}
		}
	}
	return c.ID
}

// ===============================
// API calls
// ===============================

func (c *Client) token(ctx context.Context) (string, error) {
	if c.clientID == "" || c.secret == "" {
		return "", httperr.ErrBusiness("missing_credentials")
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/oauth2/token",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", providerError(resp)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.AccessToken, nil
}

type CreateOrderInput struct {
	AmountINR   float64
	Description string
	Reference   string
}

func (c *Client) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"reference_id": in.Reference,
				"description":  in.Description,
				"amount": map[string]any{
					"currency_code": "USD",
					"value":         USDFromINR(in.AmountINR),
				},
			},
		},
	}

	var order Order
	if err := c.post(ctx, token, "/v2/checkout/orders", payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*Capture, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var capture Capture
	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", orderID)
	if err := c.post(ctx, token, path, nil, &capture); err != nil {
		return nil, err
	}
	return &capture, nil
}

func (c *Client) post(ctx context.Context, token, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = strings.NewReader("{}")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return providerError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func providerError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return fmt.Errorf("paypal %d: %s: %w", resp.StatusCode, string(raw), httperr.ErrBusiness("provider_error"))
}
