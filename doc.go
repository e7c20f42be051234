// Package authkit provides account registration, email/password login and
// social login for Go backends, with JWT bearer tokens for sessions.
//
// Authkit separates authentication concerns into two layers: accounts and
// auth methods. An account is one person; an auth method is one way that
// person proves who they are. A single account can carry a local password
// method and any number of social provider methods, so a user who registers
// with a password and later signs in with Google keeps one identity.
//
// # Basic Usage
//
// Wire a store, a token issuer and the service:
//
//	import (
//	    "github.com/admitted/authkit"
//	    "github.com/admitted/authkit/stores"
//	)
//
//	store := stores.NewMemStore()
//	tokens := authkit.NewTokenIssuer(secret, "authkit", 30*time.Minute)
//	svc := authkit.NewAuthService(store, tokens, nil)
//
// Mount the HTTP API on a router:
//
//	api := &authkit.API{
//	    Service:     svc,
//	    Providers:   oauth2.NewRegistry(google, facebook),
//	    FrontendURL: "http://localhost:3000",
//	    Middleware:  &authkit.Middleware{Tokens: tokens},
//	}
//	r := mux.NewRouter()
//	api.Routes(r)
//
// For production use the GORM store in stores/gorm instead of the in-memory
// one. See cmd/authd for a complete server.
package authkit
