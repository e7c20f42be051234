package oauth2

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

// fakeUpstream stands in for a provider's token and userinfo endpoints
type fakeUpstream struct {
	server       *httptest.Server
	tokenStatus  int
	accessToken  string
	userinfoBody string
}

func newFakeUpstream() *fakeUpstream {
	f := &fakeUpstream{
		tokenStatus:  http.StatusOK,
		accessToken:  "fake-access-token",
		userinfoBody: `{"sub":"google-sub-1","name":"Bob","email":"bob@example.com"}`,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if f.tokenStatus != http.StatusOK {
			w.WriteHeader(f.tokenStatus)
			w.Write([]byte(`{"error":"server_error"}`))
			return
		}
		w.Write([]byte(`{"access_token":"` + f.accessToken + `","token_type":"bearer"}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.accessToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(f.userinfoBody))
	})
	f.server = httptest.NewServer(mux)
	return f
}

func (f *fakeUpstream) provider() *Provider {
	endpoint := oauth2.Endpoint{
		AuthURL:  f.server.URL + "/auth",
		TokenURL: f.server.URL + "/token",
	}
	return newGoogleWithEndpoint("client-id", "client-secret", "http://localhost/cb", endpoint, f.server.URL+"/userinfo")
}

func TestExchange(t *testing.T) {
	upstream := newFakeUpstream()
	defer upstream.server.Close()

	identity, err := upstream.provider().Exchange(context.Background(), "fake-code")
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if identity.Email != "bob@example.com" || identity.Name != "Bob" || identity.SubjectID != "google-sub-1" {
		t.Errorf("unexpected identity %+v", identity)
	}
}

func TestExchangeFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fakeUpstream)
	}{
		{"token endpoint error", func(f *fakeUpstream) { f.tokenStatus = http.StatusInternalServerError }},
		{"userinfo not json", func(f *fakeUpstream) { f.userinfoBody = "<html>oops</html>" }},
		{"userinfo missing email", func(f *fakeUpstream) { f.userinfoBody = `{"sub":"s","name":"Bob"}` }},
		{"userinfo missing subject", func(f *fakeUpstream) { f.userinfoBody = `{"name":"Bob","email":"bob@example.com"}` }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			upstream := newFakeUpstream()
			defer upstream.server.Close()
			tc.setup(upstream)

			_, err := upstream.provider().Exchange(context.Background(), "fake-code")
			if !errors.Is(err, ErrExchangeFailed) {
				t.Errorf("got %v, want ErrExchangeFailed", err)
			}
		})
	}
}

func TestAuthCodeURL(t *testing.T) {
	p := NewGoogle("client-id", "client-secret", "http://localhost/cb")
	u := p.AuthCodeURL("state-xyz")
	if u == "" {
		t.Fatal("empty authorization URL")
	}
	for _, want := range []string{"client_id=client-id", "state=state-xyz", "response_type=code"} {
		if !strings.Contains(u, want) {
			t.Errorf("authorization URL %q missing %q", u, want)
		}
	}
}

func TestFacebookIdentity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("access_token") != "fb-token" || q.Get("fields") != "id,name,email" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"fb-1","name":"Carol","email":"carol@example.com"}`))
	}))
	defer server.Close()

	identity, err := facebookIdentityFrom(context.Background(), server.Client(), server.URL, "fb-token")
	if err != nil {
		t.Fatalf("facebookIdentityFrom failed: %v", err)
	}
	if identity.SubjectID != "fb-1" || identity.Email != "carol@example.com" {
		t.Errorf("unexpected identity %+v", identity)
	}
}

func TestStateCookie(t *testing.T) {
	w := httptest.NewRecorder()
	state, err := SetStateCookie(w)
	if err != nil {
		t.Fatal(err)
	}
	if state == "" {
		t.Fatal("empty state")
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != state {
		t.Fatalf("unexpected cookies %v", cookies)
	}

	r := httptest.NewRequest("GET", "/cb?state="+state, nil)
	r.AddCookie(cookies[0])
	if !VerifyStateCookie(httptest.NewRecorder(), r) {
		t.Error("matching state rejected")
	}

	forged := httptest.NewRequest("GET", "/cb?state=forged", nil)
	forged.AddCookie(cookies[0])
	if VerifyStateCookie(httptest.NewRecorder(), forged) {
		t.Error("forged state accepted")
	}

	bare := httptest.NewRequest("GET", "/cb?state="+state, nil)
	if VerifyStateCookie(httptest.NewRecorder(), bare) {
		t.Error("request without cookie accepted")
	}
}
