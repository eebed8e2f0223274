package geo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Provider resolves an IP to a Location. Implementations report transport or
// parse problems through the error; a successful call with no data returns an
// absent Location.
type Provider interface {
	Lookup(ip string) (Location, error)
}

// APIProvider queries the ip-api JSON endpoint. The HTTP client carries a
// short hard timeout so a degraded upstream cannot stall request handling.
type APIProvider struct {
	baseURL string
	client  *http.Client
}

func NewAPIProvider(baseURL string, timeout time.Duration) *APIProvider {
	return &APIProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	Status  string `json:"status"`
	Country string `json:"country"`
	City    string `json:"city"`
	Message string `json:"message"`
}

func (p *APIProvider) Lookup(ip string) (Location, error) {
	lookupURL := fmt.Sprintf("%s/%s?fields=status,country,city,message", p.baseURL, url.PathEscape(ip))

	resp, err := p.client.Get(lookupURL)
	if err != nil {
		return Location{}, fmt.Errorf("geo: lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geo: lookup returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Location{}, fmt.Errorf("geo: decode lookup response: %w", err)
	}

	if payload.Status != "success" {
		log.Debug("geo: provider reported failure", "ip", ip, "message", payload.Message)
		return Location{}, nil
	}

	return Location{
		Country: optional(payload.Country),
		City:    optional(payload.City),
	}, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
