package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultSessionURL is the Mojang session server profile endpoint.
const DefaultSessionURL = "https://sessionserver.mojang.com/session/minecraft/profile/"

const (
	defaultRPS         = 5
	defaultBurst       = 10
	defaultHTTPTimeout = 5 * time.Second
	maxProfileBody     = 64 << 10
)

// MojangClient looks up player profiles on the Mojang session server.
type MojangClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// ClientOption applies a configuration option to the MojangClient.
type ClientOption func(*MojangClient)

// WithBaseURL overrides the session server URL.
func WithBaseURL(u string) ClientOption {
	return func(c *MojangClient) {
		if u != "" {
			if !strings.HasSuffix(u, "/") {
				u += "/"
			}
			c.baseURL = u
		}
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *MojangClient) {
		if h != nil {
			c.http = h
		}
	}
}

// WithRateLimit bounds outgoing requests per second.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *MojangClient) {
		if rps > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// NewMojangClient creates a rate-limited client.
func NewMojangClient(opts ...ClientOption) *MojangClient {
	c := &MojangClient{
		baseURL: DefaultSessionURL,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
		limiter: rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CleanUUID strips dashes the way the session server expects.
func CleanUUID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return strings.ReplaceAll(u.String(), "-", "")
	}
	return strings.ReplaceAll(id, "-", "")
}

// ProfileName returns the current name for id. It returns ErrNoProfile when
// the server answers 204 and ErrUpstream for any other failure.
func (c *MojangClient) ProfileName(ctx context.Context, id string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+CleanUUID(id), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var p profile
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxProfileBody)).Decode(&p); err != nil {
			return "", fmt.Errorf("%w: decode profile: %v", ErrUpstream, err)
		}
		if p.Name == "" {
			return "", fmt.Errorf("%w: empty name", ErrUpstream)
		}
		return p.Name, nil
	case http.StatusNoContent:
		return "", ErrNoProfile
	default:
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
}
