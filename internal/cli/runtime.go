package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/Samsoorsamander/Gym-tribe-tracker/internal/app"
	"github.com/Samsoorsamander/Gym-tribe-tracker/internal/config"
	"github.com/Samsoorsamander/Gym-tribe-tracker/internal/log"
)

// runtime bundles the initialized service for one command invocation.
// Initialization failure is terminal for the invocation; commands
// surface it instead of retrying.
type runtime struct {
	service *app.Service
}

func newRuntime(ctx context.Context, configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := log.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	service := app.New(cfg, logger)
	if err := service.InitializeDatabase(ctx); err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}

	return &runtime{service: service}, nil
}

func (rt *runtime) close() {
	_ = rt.service.Close()
}
