package oauth2

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// NewGoogle creates a Provider for Google sign-in
func NewGoogle(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		name: "google",
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		httpClient:    &http.Client{Timeout: exchangeTimeout},
		fetchIdentity: fetchGoogleIdentity,
	}
}

// newGoogleWithEndpoint is the test seam: same provider, but pointed at a
// stand-in authorization server and userinfo endpoint
func newGoogleWithEndpoint(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint, userinfoURL string) *Provider {
	p := NewGoogle(clientID, clientSecret, redirectURL)
	p.config.Endpoint = endpoint
	p.httpClient = &http.Client{Timeout: 2 * time.Second}
	p.fetchIdentity = func(ctx context.Context, client *http.Client, accessToken string) (*Identity, error) {
		return googleIdentityFrom(ctx, client, userinfoURL, accessToken)
	}
	return p
}

func fetchGoogleIdentity(ctx context.Context, client *http.Client, accessToken string) (*Identity, error) {
	return googleIdentityFrom(ctx, client, googleUserinfoURL, accessToken)
}

func googleIdentityFrom(ctx context.Context, client *http.Client, userinfoURL, accessToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var payload struct {
		Sub   string `json:"sub"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return &Identity{
		Email:     payload.Email,
		Name:      payload.Name,
		SubjectID: payload.Sub,
	}, nil
}
