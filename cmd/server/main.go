// Command server serves route checks over HTTP
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/cubny/farewatch"
	"github.com/cubny/farewatch/internal/api"
	"github.com/cubny/farewatch/internal/config"
	"github.com/cubny/farewatch/internal/logger"
	"github.com/cubny/farewatch/internal/sqlsource"
)

func main() {
	// a missing .env file is fine, the environment may be set already
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := openEngine(ctx, cfg)
	if err != nil {
		log.Fatalf("open engine: %v", err)
	}

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: api.NewRouter(engine)}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.HTTP.Addr, "session", engine.Session())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func openEngine(ctx context.Context, cfg config.Config) (*farewatch.Engine, error) {
	if !cfg.UseDB() {
		return farewatch.Open(ctx, &cfg.Datasets)
	}

	db, err := sqlsource.Open(ctx, cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ds, err := sqlsource.LoadDatasets(ctx, db, cfg.DB.Tables)
	if err != nil {
		return nil, err
	}
	return farewatch.NewEngine(ds)
}
