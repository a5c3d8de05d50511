package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultGeoBaseURL = "http://ip-api.com/json"

// Detector guesses a visitor's currency from their IP address.
type Detector struct {
	baseURL string
	http    *http.Client
}

func NewDetector() *Detector {
	return &Detector{
		baseURL: defaultGeoBaseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Detect resolves ip to a country and maps it to a supported currency.
// Lookup failures fall back to the base currency rather than erroring:
// a wrong currency guess must never break the page.
func (d *Detector) Detect(ctx context.Context, ip string) Currency {
	url := fmt.Sprintf("%s/%s?fields=status,countryCode", d.baseURL, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Supported[BaseCode]
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return Supported[BaseCode]
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Supported[BaseCode]
	}

	var body struct {
		Status      string `json:"status"`
		CountryCode string `json:"countryCode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Status != "success" {
		return Supported[BaseCode]
	}

	return ForCountry(body.CountryCode)
}
