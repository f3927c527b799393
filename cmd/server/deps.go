package main

import (
	"context"
	"log/slog"

	"github.com/ytakahashi/taskboard/internal/config"
	"github.com/ytakahashi/taskboard/internal/services"
)

type loader func() (*config.Config, error)

type closer func() error

// openStore returns the configured document store and a func releasing it.
func openStore(ctx context.Context, cfg *config.Config) (services.DocumentStore, closer, error) {
	if cfg.StoreBackend == config.StoreMemory {
		slog.Warn("using in-memory document store; data is lost on exit")
		return services.NewMemoryStore(), func() error { return nil }, nil
	}

	fs, err := services.NewFirestoreStore(ctx, cfg.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return fs, fs.Close, nil
}

func openAuth(ctx context.Context, cfg *config.Config) (services.AuthProvider, error) {
	if cfg.AuthBackend == config.AuthLocal {
		slog.Warn("using local auth provider; accounts are lost on exit")
		return services.NewLocalAuth(), nil
	}
	return services.NewIdentityToolkitAuth(ctx, cfg.FirebaseAPIKey)
}
