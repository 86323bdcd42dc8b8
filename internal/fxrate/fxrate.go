// Package fxrate fetches daily RUB exchange rates from the Central Bank of
// Russia JSON feed. Used when a generation request asks for an external rate
// instead of supplying one manually.
package fxrate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the public CBR daily-rates mirror
const DefaultBaseURL = "https://www.cbr-xml-daily.ru"

// DefaultTimeout bounds the external fetch so request handlers are never
// held open indefinitely
const DefaultTimeout = 5 * time.Second

// Error represents a failed rate lookup
type Error struct {
	Currency string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fx rate error for %s: %s: %v", e.Currency, e.Message, e.Cause)
	}
	return fmt.Sprintf("fx rate error for %s: %s", e.Currency, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client fetches rates over HTTP
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a client against the default CBR feed
func New() *Client {
	return NewWithBaseURL(DefaultBaseURL)
}

// NewWithBaseURL creates a client against a custom feed, used in tests
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    baseURL,
	}
}

// valute is one currency entry in the CBR daily feed
type valute struct {
	Value   float64 `json:"Value"`
	Nominal float64 `json:"Nominal"`
}

type dailyFeed struct {
	Valute map[string]valute `json:"Valute"`
}

// Rate returns the RUB rate for one unit of currency
func (c *Client) Rate(ctx context.Context, currency string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/daily_json.js", nil)
	if err != nil {
		return 0, &Error{Currency: currency, Message: "invalid request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &Error{Currency: currency, Message: "fetch failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &Error{Currency: currency, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	var feed dailyFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return 0, &Error{Currency: currency, Message: "invalid feed payload", Cause: err}
	}

	v, ok := feed.Valute[currency]
	if !ok {
		return 0, &Error{Currency: currency, Message: "rate not found in feed"}
	}
	nominal := v.Nominal
	if nominal == 0 {
		nominal = 1
	}
	return v.Value / nominal, nil
}
