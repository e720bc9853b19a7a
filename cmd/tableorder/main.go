package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mekedron/tableorder-cli/internal/cart"
	"github.com/mekedron/tableorder-cli/internal/checkout"
	"github.com/mekedron/tableorder-cli/internal/cli"
	"github.com/mekedron/tableorder-cli/internal/config"
	"github.com/mekedron/tableorder-cli/internal/gateway/backend"
	"github.com/mekedron/tableorder-cli/internal/mockapi"
	"github.com/mekedron/tableorder-cli/internal/service/profile"
	"github.com/mekedron/tableorder-cli/internal/storage"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	settings, err := config.LoadSettings()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	level := zap.NewAtomicLevelAt(settings.LogLevel)
	logger := newLogger(level)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := config.NewStore()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	carts, closeCarts, err := openCartStorage(ctx, settings)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	defer closeCarts()

	scheme, err := checkout.ParseScheme(settings.OrderScheme)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	deps := cli.Dependencies{
		Backend: func(baseURL string) backend.API {
			if strings.TrimSpace(baseURL) == "" {
				baseURL = settings.APIBaseURL
			}
			return backend.NewClient(
				backend.WithBaseURL(baseURL),
				backend.WithRequestMinInterval(settings.HTTPMinInterval),
				backend.WithLogger(logger.Named("backend")),
			)
		},
		Profiles: profile.NewResolver(store),
		Config:   store,
		Carts:    carts,
		Logger:   logger,
		LogLevel: &level,
		Scheme:   scheme,
		Mock:     mockapi.NewServer(mockapi.WithLogger(logger.Named("mock"))),
		MockAddr: settings.MockAddr,
		Version:  version,
	}

	return cli.Execute(ctx, os.Args[1:], deps, os.Stdout, os.Stderr)
}

func newLogger(level zap.AtomicLevel) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core).With(zap.String("service", "tableorder"))
}

func openCartStorage(ctx context.Context, settings config.Settings) (cart.Storage, func(), error) {
	switch settings.Storage {
	case config.StorageMemory:
		return storage.NewMemory(), func() {}, nil
	case config.StoragePostgres:
		pg, err := storage.NewPostgres(ctx, settings.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		if settings.StorageDir != "" {
			return storage.NewFile(settings.StorageDir), func() {}, nil
		}
		file, err := storage.NewDefaultFile()
		if err != nil {
			return nil, nil, err
		}
		return file, func() {}, nil
	}
}
