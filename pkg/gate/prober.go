package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultProbeTimeout = 5 * time.Second

// Prober fetches the live backend version snapshot over HTTP.
// The endpoint must return a JSON object mapping service names to versions:
//
//	{"webservices.rest": "2.25.0", "fhir2": "1.4.0"}
type Prober struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithHTTPClient sets the HTTP client used for probing.
func WithHTTPClient(c *http.Client) ProberOption {
	return func(p *Prober) {
		if c != nil {
			p.client = c
		}
	}
}

// WithProbeTimeout caps a single probe. Defaults to 5 seconds.
func WithProbeTimeout(d time.Duration) ProberOption {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// NewProber creates a prober for the given version endpoint.
func NewProber(url string, opts ...ProberOption) *Prober {
	p := &Prober{
		url:     url,
		client:  http.DefaultClient,
		timeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Versions fetches the current service version snapshot.
func (p *Prober) Versions(ctx context.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProbe, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProbe, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrProbe, resp.StatusCode)
	}

	var versions map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&versions); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %s", ErrProbe, err)
	}
	return versions, nil
}
