package authkit

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	oa2 "github.com/admitted/authkit/oauth2"
)

// tokenResponse is the body returned by register and login
type tokenResponse struct {
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// API exposes the auth service over HTTP
type API struct {
	Service   *AuthService
	Providers *oa2.Registry

	// FrontendURL is where social login callbacks send the browser,
	// e.g. "http://localhost:3000"
	FrontendURL string

	Middleware *Middleware
	Logger     *slog.Logger
}

// Routes registers all auth endpoints on the given router
func (a *API) Routes(r *mux.Router) {
	r.HandleFunc("/auth/register", a.handleRegister).Methods("POST")
	r.HandleFunc("/auth/login", a.handleLogin).Methods("POST")
	r.HandleFunc("/auth/login/{provider}", a.handleSocialStart).Methods("GET")
	r.HandleFunc("/auth/callback/{provider}", a.handleSocialCallback).Methods("GET")
	r.Handle("/auth/profile", a.Middleware.RequireAccount(http.HandlerFunc(a.handleGetProfile))).Methods("GET")
	r.Handle("/auth/profile", a.Middleware.RequireAccount(http.HandlerFunc(a.handleUpdateProfile))).Methods("PATCH")
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, NewAuthError(ErrCodeMissingField, "Invalid request body", ""))
		return
	}

	result, err := a.Service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{
		UserID:    result.AccountID,
		Token:     result.Token,
		TokenType: "bearer",
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, NewAuthError(ErrCodeMissingField, "Invalid request body", ""))
		return
	}

	result, err := a.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		UserID:    result.AccountID,
		Token:     result.Token,
		TokenType: "bearer",
	})
}

func (a *API) handleSocialStart(w http.ResponseWriter, r *http.Request) {
	provider, ok := a.Providers.Get(mux.Vars(r)["provider"])
	if !ok {
		errorResponse(w, http.StatusBadRequest, NewAuthError(ErrCodeBadProvider, "Unsupported login provider", "provider"))
		return
	}

	state, err := oa2.SetStateCookie(w)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, NewAuthError(ErrCodeServerError, "Failed to start login", ""))
		return
	}
	http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusFound)
}

func (a *API) handleSocialCallback(w http.ResponseWriter, r *http.Request) {
	provider, ok := a.Providers.Get(mux.Vars(r)["provider"])
	if !ok {
		errorResponse(w, http.StatusBadRequest, NewAuthError(ErrCodeBadProvider, "Unsupported login provider", "provider"))
		return
	}

	if !oa2.VerifyStateCookie(w, r) {
		a.logger().Warn("social login state mismatch", "provider", provider.Name())
		a.redirectFailure(w, r)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		a.redirectFailure(w, r)
		return
	}

	identity, err := provider.Exchange(r.Context(), code)
	if err != nil {
		a.logger().Warn("social login exchange failed", "provider", provider.Name(), "error", err)
		a.redirectFailure(w, r)
		return
	}

	// Provider names double as method kinds ("google", "facebook")
	result, err := a.Service.SocialLogin(r.Context(), MethodKind(provider.Name()), identity)
	if err != nil {
		a.logger().Error("social login failed", "provider", provider.Name(), "error", err)
		a.redirectFailure(w, r)
		return
	}

	query := url.Values{}
	query.Set("token", result.Token)
	query.Set("user_id", result.AccountID)
	http.Redirect(w, r, a.FrontendURL+"/login/success?"+query.Encode(), http.StatusFound)
}

func (a *API) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	account, err := a.Service.Profile(r.Context(), AccountID(r.Context()))
	if err != nil {
		a.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (a *API) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		errorResponse(w, http.StatusBadRequest, NewAuthError(ErrCodeMissingField, "Invalid request body", ""))
		return
	}

	account, err := a.Service.UpdateProfile(r.Context(), AccountID(r.Context()), &patch)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (a *API) redirectFailure(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, a.FrontendURL+"/login?error=social_login_failed", http.StatusFound)
}

// serviceError maps service-layer errors onto HTTP responses
func (a *API) serviceError(w http.ResponseWriter, err error) {
	var authErr *AuthError
	switch {
	case errors.As(err, &authErr):
		errorResponse(w, http.StatusBadRequest, authErr)
	case errors.Is(err, ErrConflict):
		errorResponse(w, http.StatusConflict, NewAuthError(ErrCodeEmailExists, "Email already registered", "email"))
	case errors.Is(err, ErrUnauthorized):
		errorResponse(w, http.StatusUnauthorized, NewAuthError(ErrCodeInvalidCreds, "Incorrect email or password", ""))
	case errors.Is(err, ErrNotFound):
		errorResponse(w, http.StatusNotFound, NewAuthError(ErrCodeNotFound, "Account not found", ""))
	default:
		a.logger().Error("request failed", "error", err)
		errorResponse(w, http.StatusInternalServerError, NewAuthError(ErrCodeServerError, "Internal server error", ""))
	}
}

func (a *API) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// errorResponse sends the standard JSON error body
func errorResponse(w http.ResponseWriter, status int, authErr *AuthError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": authErr.Message,
		"code":  authErr.Code,
		"field": authErr.Field,
	})
}
