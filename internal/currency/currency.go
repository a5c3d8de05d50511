package currency

import "github.com/skilloop/skilloop-api/internal/httperr"

// BaseCode is the platform's pricing currency; all rates convert from it.
const BaseCode = "INR"

type Currency struct {
	Code   string  `json:"code"`
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Rate   float64 `json:"rate"` // units per 1 INR
}

var Supported = map[string]Currency{
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee", Rate: 1},
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar", Rate: 0.012},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro", Rate: 0.011},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound", Rate: 0.0095},
	"AED": {Code: "AED", Symbol: "د.إ", Name: "UAE Dirham", Rate: 0.044},
	"SGD": {Code: "SGD", Symbol: "S$", Name: "Singapore Dollar", Rate: 0.016},
}

func Get(code string) (Currency, error) {
	cur, ok := Supported[code]
	if !ok {
		return Currency{}, httperr.ErrBusiness("unsupported_currency")
	}
	return cur, nil
}

// Convert turns a base-currency (INR) amount into the target currency.
func Convert(amountINR float64, code string) (float64, error) {
	cur, err := Get(code)
	if err != nil {
		return 0, err
	}
	return amountINR * cur.Rate, nil
}

// countryToCurrency maps ISO country codes to the supported currency used
// for the first-visit guess. Anything unmapped falls back to INR.
var countryToCurrency = map[string]string{
	"IN": "INR",
	"US": "USD",
	"GB": "GBP",
	"AE": "AED",
	"SG": "SGD",

	// Eurozone
	"AT": "EUR", "BE": "EUR", "DE": "EUR", "ES": "EUR", "FI": "EUR",
	"FR": "EUR", "GR": "EUR", "IE": "EUR", "IT": "EUR", "NL": "EUR",
	"PT": "EUR",
}

func ForCountry(countryCode string) Currency {
	if code, ok := countryToCurrency[countryCode]; ok {
		return Supported[code]
	}
	return Supported[BaseCode]
}
