package bmc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/skilloop/skilloop-api/internal/httperr"
)

const defaultBaseURL = "https://developers.buymeacoffee.com/api"

type Client struct {
	accessToken string
	baseURL     string
	http        *http.Client
}

func New(accessToken string) *Client {
	return &Client{
		accessToken: accessToken,
		baseURL:     defaultBaseURL,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
}

// Support is one completed supporter payment.
type Support struct {
	SupportID   int    `json:"support_id"`
	CoffeePrice string `json:"support_coffee_price"`
	Coffees     int    `json:"support_coffees"`
	PayerEmail  string `json:"payer_email"`
	PayerName   string `json:"payer_name"`
	SupportNote string `json:"support_note"`
	IsRefunded  *bool  `json:"is_refunded"`
	SupportedOn string `json:"support_created_on"`
}

func (s *Support) Amount() float64 {
	price, err := strconv.ParseFloat(s.CoffeePrice, 64)
	if err != nil {
		return 0
	}
	return price * float64(s.Coffees)
}

func (s *Support) Paid() bool {
	return s.Coffees > 0 && (s.IsRefunded == nil || !*s.IsRefunded)
}

// VerifyTransaction looks the transaction id up in the supporters feed.
// Returns ErrBusiness("transaction_not_found") when no supporter matches.
func (c *Client) VerifyTransaction(ctx context.Context, transactionID string) (*Support, error) {
	if c.accessToken == "" {
		return nil, httperr.ErrBusiness("missing_credentials")
	}

	wanted, err := strconv.Atoi(transactionID)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_transaction_id")
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/v1/supporters",
		nil,
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("bmc %d: %s: %w", resp.StatusCode, string(raw), httperr.ErrBusiness("provider_error"))
	}

	var body struct {
		Data []Support `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	for i := range body.Data {
		if body.Data[i].SupportID == wanted {
			return &body.Data[i], nil
		}
	}

	return nil, httperr.ErrBusiness("transaction_not_found")
}
