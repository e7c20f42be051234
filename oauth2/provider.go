// Package oauth2 implements the identity-provider gateway for social login.
//
// A Provider wraps the OAuth2 authorization-code flow for one upstream
// provider: it builds authorization URLs and exchanges callback codes for a
// normalized Identity (email, display name, provider subject id). Everything
// that can go wrong during the exchange - transport failures, a missing
// access token, a userinfo payload without email or subject - collapses to
// ErrExchangeFailed, so callers see exactly one "social login failed"
// outcome.
package oauth2

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// ErrExchangeFailed is returned for any failure during the code exchange or
// the userinfo fetch. Callers cannot and must not distinguish which of the
// two calls failed.
var ErrExchangeFailed = errors.New("oauth2: provider exchange failed")

// exchangeTimeout bounds both network calls of an exchange so a slow
// provider cannot hang a login request indefinitely
const exchangeTimeout = 10 * time.Second

// Identity is what an upstream provider asserts about the user after a
// successful exchange
type Identity struct {
	Email     string
	Name      string
	SubjectID string
}

// FetchIdentityFunc fetches and normalizes the provider's userinfo payload
// using the access token obtained from the code exchange
type FetchIdentityFunc func(ctx context.Context, client *http.Client, accessToken string) (*Identity, error)

// Provider handles the authorization-code flow for a single upstream
// identity provider
type Provider struct {
	name          string
	config        *oauth2.Config
	httpClient    *http.Client
	fetchIdentity FetchIdentityFunc
}

// NewProvider creates a Provider for a custom upstream. Most callers want
// NewGoogle or NewFacebook; this is for self-hosted identity providers.
func NewProvider(name string, config *oauth2.Config, client *http.Client, fetch FetchIdentityFunc) *Provider {
	if client == nil {
		client = &http.Client{Timeout: exchangeTimeout}
	}
	return &Provider{name: name, config: config, httpClient: client, fetchIdentity: fetch}
}

// Name returns the provider's registry name ("google", "facebook")
func (p *Provider) Name() string {
	return p.name
}

// AuthCodeURL builds the provider's authorization URL for the given state.
// Pure URL construction, no network call.
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades the callback code for the user's identity: first the
// code-for-token exchange, then the userinfo fetch. Both calls share one
// bounded timeout.
func (p *Provider) Exchange(ctx context.Context, code string) (*Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.config.Exchange(ctx, code)
	if err != nil || token.AccessToken == "" {
		return nil, ErrExchangeFailed
	}

	identity, err := p.fetchIdentity(ctx, p.httpClient, token.AccessToken)
	if err != nil {
		return nil, ErrExchangeFailed
	}
	if identity.Email == "" || identity.SubjectID == "" {
		return nil, ErrExchangeFailed
	}
	return identity, nil
}

// Registry holds the configured providers, keyed by name
type Registry struct {
	providers map[string]*Provider
}

// NewRegistry builds a registry from the given providers
func NewRegistry(providers ...*Provider) *Registry {
	r := &Registry{providers: make(map[string]*Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.name] = p
	}
	return r
}

// Get looks up a provider by name
func (r *Registry) Get(name string) (*Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}
