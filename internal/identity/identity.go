// Package identity verifies bearer identity tokens. Verification is an
// external capability: the rest of the system only consumes the verified
// subject, never the token itself.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Claims is the verified identity attached to a token.
type Claims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// Verifier checks a raw bearer token and returns the claims it carries.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier validates Google ID tokens against the tokeninfo endpoint.
// When Audience is set, the token's aud claim must match it.
type GoogleVerifier struct {
	Audience string
	Client   *http.Client
	Endpoint string
}

func NewGoogleVerifier(audience string) *GoogleVerifier {
	return &GoogleVerifier{
		Audience: audience,
		Client:   &http.Client{Timeout: 10 * time.Second},
		Endpoint: googleTokenInfoURL,
	}
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	endpoint := v.Endpoint
	if endpoint == "" {
		endpoint = googleTokenInfoURL
	}
	client := v.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		endpoint+"?id_token="+url.QueryEscape(token), nil)
	if err != nil {
		return nil, fmt.Errorf("building tokeninfo request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling tokeninfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token rejected: tokeninfo returned %d", resp.StatusCode)
	}

	var info struct {
		Claims
		Aud string `json:"aud"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding tokeninfo response: %w", err)
	}
	if info.Subject == "" {
		return nil, errors.New("token carries no subject")
	}
	if v.Audience != "" && info.Aud != v.Audience {
		return nil, errors.New("token audience mismatch")
	}
	return &info.Claims, nil
}

// StaticVerifier maps fixed tokens to claims. For tests and local
// development.
type StaticVerifier map[string]Claims

func (v StaticVerifier) Verify(_ context.Context, token string) (*Claims, error) {
	c, ok := v[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &c, nil
}
