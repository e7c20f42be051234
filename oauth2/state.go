package oauth2

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"
)

const stateCookieName = "oauthstate"

// SetStateCookie generates a random state value, stores it in a short-lived
// cookie and returns it for inclusion in the authorization URL
func SetStateCookie(w http.ResponseWriter) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		MaxAge:   600,
		HttpOnly: true,
	})
	return state, nil
}

// VerifyStateCookie checks the callback's state parameter against the cookie
// set at redirect time and clears the cookie either way
func VerifyStateCookie(w http.ResponseWriter, r *http.Request) bool {
	cookie, err := r.Cookie(stateCookieName)
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	if err != nil || cookie.Value == "" {
		return false
	}
	return r.URL.Query().Get("state") == cookie.Value
}
