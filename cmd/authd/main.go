// Command authd runs the authkit HTTP server.
//
// Configuration comes from the environment (or a .env file); JWT_SECRET is
// the only required variable. With DATABASE_URL unset the server keeps
// accounts in memory, which is handy for local frontend development.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/admitted/authkit"
	"github.com/admitted/authkit/oauth2"
	"github.com/admitted/authkit/stores"
	gormstore "github.com/admitted/authkit/stores/gorm"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := authkit.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	tokens := authkit.NewTokenIssuer(cfg.JWTSecret, "authkit", cfg.TokenTTL)
	service := authkit.NewAuthService(store, tokens, logger)

	var providers []*oauth2.Provider
	if cfg.GoogleClientID != "" {
		providers = append(providers, oauth2.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.RedirectURL("google")))
	}
	if cfg.FacebookClientID != "" {
		providers = append(providers, oauth2.NewFacebook(cfg.FacebookClientID, cfg.FacebookClientSecret, cfg.RedirectURL("facebook")))
	}

	api := &authkit.API{
		Service:     service,
		Providers:   oauth2.NewRegistry(providers...),
		FrontendURL: cfg.FrontendURL,
		Middleware:  &authkit.Middleware{Tokens: tokens},
		Logger:      logger,
	}

	r := mux.NewRouter()
	api.Routes(r)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func openStore(cfg *authkit.Config, logger *slog.Logger) (authkit.AccountStore, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		return stores.NewMemStore(), nil
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := gormstore.AutoMigrate(db); err != nil {
		return nil, err
	}
	return gormstore.NewAccountStore(db), nil
}
