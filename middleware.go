package authkit

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const accountIDKey contextKey = "accountID"

// AccountID returns the authenticated account id carried in the request
// context, or "" if the request was not authenticated
func AccountID(ctx context.Context) string {
	id, _ := ctx.Value(accountIDKey).(string)
	return id
}

// Middleware authenticates requests from a bearer token in the
// Authorization header and places the account id in the request context.
type Middleware struct {
	Tokens *TokenIssuer
}

// RequireAccount wraps a handler so it only runs for requests carrying a
// valid bearer token. Anything else - no header, bad scheme, expired or
// forged token - gets a 401 with the standard error body.
func (m *Middleware) RequireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			errorResponse(w, http.StatusUnauthorized, NewAuthError(ErrCodeInvalidCreds, "Missing or invalid authorization header", ""))
			return
		}
		accountID, err := m.Tokens.Validate(token)
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, NewAuthError(ErrCodeInvalidCreds, "Invalid or expired token", ""))
			return
		}
		ctx := context.WithValue(r.Context(), accountIDKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
