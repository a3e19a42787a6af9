// Package registry queries the national whitelist registry for a contractor
// by tax id and normalizes its response into the internal aggregate shape.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"whitelist/internal/contractor/models"
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the whitelist registry over HTTP. It performs exactly one
// read-only request per lookup and never touches storage.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	now        func() time.Time
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing or custom transports).
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithClock overrides the clock used to scope lookups to the current date.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a whitelist registry client against the given base URL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// lookupResponse is the registry response envelope. The request metadata is
// decoded for completeness but not used beyond that.
type lookupResponse struct {
	Result lookupResult `json:"result"`
}

type lookupResult struct {
	Subject         *subject `json:"subject"`
	RequestID       string   `json:"requestId"`
	RequestDateTime string   `json:"requestDateTime"`
}

// subject mirrors the registry's entry for a single tax payer. Fields the
// schema does not guarantee across versions are pointers; absence upstream
// stays absence here.
type subject struct {
	Name               string   `json:"name"`
	NIP                string   `json:"nip"`
	StatusVAT          string   `json:"statusVat"`
	REGON              *string  `json:"regon"`
	KRS                *string  `json:"krs"`
	ResidenceAddress   *string  `json:"residenceAddress"`
	WorkingAddress     *string  `json:"workingAddress"`
	AccountNumbers     []string `json:"accountNumbers"`
	RegistrationDate   *string  `json:"registrationLegalDate"`
}

// Lookup queries the registry for taxID as of the current date.
//
// Outcomes are kept distinguishable: (c, true, nil) on a hit,
// (nil, false, nil) when the registry has no subject for the tax id, and
// (nil, false, err) on transport or decode failure. The tax id is passed
// through verbatim; format validation belongs to the registry.
func (c *Client) Lookup(ctx context.Context, taxID string) (*models.Contractor, bool, error) {
	day := c.now().Format("2006-01-02")
	u := fmt.Sprintf("%s/api/search/nip/%s?date=%s", c.baseURL, url.PathEscape(taxID), day)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, newError(KindTransport, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, newError(KindTransport, "execute request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, newError(KindTransport, "read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, newError(KindTransport,
			fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	var envelope lookupResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, false, newError(KindDecode, "parse response envelope", err)
	}

	// A missing subject is the registry's "no contractor for this tax id",
	// not a fault.
	if envelope.Result.Subject == nil {
		return nil, false, nil
	}

	return mapSubject(envelope.Result.Subject), true, nil
}

// mapSubject translates a registry subject into the internal aggregate.
// Optional fields stay pointers; the account list is normalized to a non-nil
// slice so an aggregate with zero accounts round-trips as empty, not null.
func mapSubject(s *subject) *models.Contractor {
	accounts := s.AccountNumbers
	if accounts == nil {
		accounts = []string{}
	}
	return &models.Contractor{
		Name:               s.Name,
		TaxID:              s.NIP,
		VATStatus:          s.StatusVAT,
		RegistrationNumber: s.REGON,
		CourtRegistryID:    s.KRS,
		ResidenceAddress:   s.ResidenceAddress,
		WorkingAddress:     s.WorkingAddress,
		Accounts:           accounts,
	}
}
