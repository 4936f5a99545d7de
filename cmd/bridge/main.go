package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/ZachHandley/JellyAppwriteAuth/pkg/appwrite"
	"github.com/ZachHandley/JellyAppwriteAuth/pkg/authbridge"
	"github.com/ZachHandley/JellyAppwriteAuth/pkg/authbridge/api"
	"github.com/ZachHandley/JellyAppwriteAuth/pkg/config"
	"github.com/ZachHandley/JellyAppwriteAuth/pkg/invitation"
	"github.com/ZachHandley/JellyAppwriteAuth/pkg/notification"
)

type ServerConfig struct {
	Host string `env:"HOST" env-default:"0.0.0.0"`
	Port string `env:"PORT" env-default:"4000"`
}

type Config struct {
	Server ServerConfig
	Bridge config.BridgeConfig
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := Config{}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}
	if err := cfg.Bridge.Validate(); err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	client, err := appwrite.NewClient(cfg.Bridge.Appwrite)
	if err != nil {
		slog.Error("Failed to create Appwrite client", "err", err)
		os.Exit(1)
	}

	var sender notification.Sender
	switch cfg.Bridge.Channel {
	case config.ChannelMessaging:
		sender, err = notification.NewMessagingSender(client, cfg.Bridge.SMTP, cfg.Bridge.Branding.Name)
	default:
		sender, err = notification.NewSMTPSender(cfg.Bridge.SMTP)
	}
	if err != nil {
		slog.Error("Failed to create email sender", "err", err)
		os.Exit(1)
	}

	authService := authbridge.NewService(client, authbridge.NewInMemoryDirectory(),
		authbridge.WithMarkVerifiedOnLogin(cfg.Bridge.MarkEmailVerifiedOnLogin))
	inviteService := invitation.NewService(client, sender, cfg.Bridge.Branding, cfg.Bridge.Templates)
	handler := api.NewHandler(authService, inviteService)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Route("/api", handler.Routes)

	server := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting bridge server", "addr", server.Addr, "channel", cfg.Bridge.Channel)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "err", err)
	}
}
