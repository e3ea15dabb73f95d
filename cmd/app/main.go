package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderreview/cmd"
	httpin "orderreview/internal/adapters/in/http"
	"orderreview/internal/adapters/out/postgres"
	"orderreview/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLog, err := logger.New(configs.LogLevel)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = zapLog.Sync() }()

	if err := run(configs, zapLog); err != nil {
		zapLog.Error("service stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(configs cmd.Config, zapLog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err := postgres.Migrate(ctx, gormDB); err != nil {
		return err
	}

	app, err := cmd.NewCompositionRoot(ctx, configs, gormDB, zapLog)
	if err != nil {
		return err
	}

	e, err := newWebServer(ctx, app, configs, zapLog)
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			jobManager.StopAll()
			return err
		}
	case <-ctx.Done():
		zapLog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("http shutdown", zap.Error(err))
	}
	jobManager.StopAll()
	if err := app.Wait(shutdownCtx); err != nil {
		zapLog.Warn("pending side effects abandoned", zap.Error(err))
	}
	return nil
}

func newWebServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, zapLog *zap.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.WARN)
	e.Use(httpin.Middleware(zapLog, configs.RequestTimeout)...)

	server, err := app.CreateServer()
	if err != nil {
		return nil, err
	}
	server.Register(e)

	doc, err := httpin.LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	if err := httpin.RegisterDocs(e, doc); err != nil {
		return nil, err
	}
	return e, nil
}
