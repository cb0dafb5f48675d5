package google

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/teemow/drivemenu/internal/config"
	"github.com/teemow/drivemenu/internal/instrumentation"
)

// TokenURL is Google's OAuth2 token endpoint.
const TokenURL = "https://oauth2.googleapis.com/token"

// Authenticator produces authenticated HTTP clients from Credentials.
type Authenticator struct {
	creds    config.Credentials
	endpoint oauth2.Endpoint
	metrics  *instrumentation.Metrics
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithEndpoint overrides the OAuth endpoint. Used by tests.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(a *Authenticator) {
		a.endpoint = endpoint
	}
}

// WithMetrics records token refresh attempts on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(a *Authenticator) {
		a.metrics = m
	}
}

// NewAuthenticator validates creds and returns an Authenticator for them.
func NewAuthenticator(creds config.Credentials, opts ...Option) (*Authenticator, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	a := &Authenticator{
		creds: creds,
		endpoint: oauth2.Endpoint{
			AuthURL:   google.Endpoint.AuthURL,
			TokenURL:  TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// OAuthConfig returns the OAuth2 configuration matching the credentials.
func (a *Authenticator) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     a.creds.ClientID,
		ClientSecret: a.creds.ClientSecret,
		Endpoint:     a.endpoint,
		RedirectURL:  a.creds.RedirectURI,
		Scopes:       DriveScopes,
	}
}

// TokenSource returns a token source seeded with the refresh token only, so
// the first call performs a refresh. The token is fetched once up front so
// bad credentials fail at startup rather than on the first Drive call.
func (a *Authenticator) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	base := a.OAuthConfig().TokenSource(ctx, &oauth2.Token{
		TokenType:    "Bearer",
		RefreshToken: a.creds.RefreshToken,
		Expiry:       time.Unix(1, 0),
	})

	ts := &meteredTokenSource{ctx: ctx, base: base, metrics: a.metrics}
	tok, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh Google access token: %w", err)
	}
	return oauth2.ReuseTokenSource(tok, ts), nil
}

// HTTPClient returns an HTTP client that authenticates every request.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors
// on long media uploads.
func (a *Authenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	ts, err := a.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: ts,
			Base: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				ForceAttemptHTTP2: false,
			},
		},
	}, nil
}
