package oauth2

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const facebookUserinfoURL = "https://graph.facebook.com/me"

// NewFacebook creates a Provider for Facebook login
func NewFacebook(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		name: "facebook",
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"email"},
			Endpoint:     facebook.Endpoint,
		},
		httpClient:    &http.Client{Timeout: exchangeTimeout},
		fetchIdentity: fetchFacebookIdentity,
	}
}

func fetchFacebookIdentity(ctx context.Context, client *http.Client, accessToken string) (*Identity, error) {
	return facebookIdentityFrom(ctx, client, facebookUserinfoURL, accessToken)
}

func facebookIdentityFrom(ctx context.Context, client *http.Client, userinfoURL, accessToken string) (*Identity, error) {
	q := url.Values{}
	q.Set("fields", "id,name,email")
	q.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facebook userinfo returned status %d", resp.StatusCode)
	}

	var payload struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return &Identity{
		Email:     payload.Email,
		Name:      payload.Name,
		SubjectID: payload.ID,
	}, nil
}
