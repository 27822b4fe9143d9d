package osu

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/osustats/osustats/internal/metrics"
)

// Scope requested for read-only public API access.
const publicScope = "public"

// Credentials identify the OAuth client.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// TokenFetcher exchanges client credentials for a bearer token.
// Every call performs a fresh exchange; tokens are not cached.
type TokenFetcher struct {
	cfg        clientcredentials.Config
	httpClient *http.Client
	breaker    *Breaker
	metrics    metrics.Recorder
}

// NewTokenFetcher creates a TokenFetcher for the given token endpoint.
// The credentials go out both as HTTP basic auth and in the form body.
func NewTokenFetcher(tokenURL string, creds Credentials, httpClient *http.Client, breaker *Breaker, recorder metrics.Recorder) *TokenFetcher {
	if httpClient == nil {
		httpClient = NewHTTPClient(30 * time.Second)
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TokenFetcher{
		cfg: clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     tokenURL,
			Scopes:       []string{publicScope},
			AuthStyle:    oauth2.AuthStyleInHeader,
			EndpointParams: url.Values{
				"client_id":     {creds.ClientID},
				"client_secret": {creds.ClientSecret},
			},
		},
		httpClient: httpClient,
		breaker:    breaker,
		metrics:    recorder,
	}
}

// Token performs the client-credentials exchange and returns the access token.
func (f *TokenFetcher) Token(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)

	start := time.Now()
	tok, err := execute(f.breaker, func() (*oauth2.Token, error) {
		return f.cfg.Token(ctx)
	})
	f.metrics.ObserveUpstreamRequest(metrics.EndpointToken, upstreamStatus(err), time.Since(start))
	if err != nil {
		return "", fmt.Errorf("fetch token: %w", err)
	}

	return tok.AccessToken, nil
}
