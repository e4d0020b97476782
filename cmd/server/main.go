package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "erp-sync/internal/adapters/web"
	"erp-sync/internal/api"
	"erp-sync/internal/app"
	"erp-sync/internal/audit"
	"erp-sync/internal/config"
	"erp-sync/internal/db"
	"erp-sync/internal/logger"
	"erp-sync/internal/notify"
	"erp-sync/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("logger: %v", err)
	}
	logMain := logger.WithComponent("server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.New(0)

	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logMain.Fatal().Err(err).Msg("database")
		}
		defer pool.Close()

		sink := audit.NewPgSink(pool, 256, logger.WithComponent("audit"))
		st.Journal.AddSink(sink)
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := sink.Close(closeCtx); err != nil {
				logMain.Warn().Err(err).Msg("audit sink did not drain")
			}
			logMain.Info().
				Str("session", sink.Session().String()).
				Int64("dropped", sink.Dropped()).
				Int64("failed", sink.Failed()).
				Msg("audit sink closed")
		}()
		logMain.Info().Str("session", sink.Session().String()).Msg("recording store actions to postgres")
	}

	notes := notify.NewRecorder(200)
	notifier := notify.Fanout{notes, notify.NewLogNotifier(logger.WithComponent("notify"))}
	client := api.NewClient(cfg.APIURL, cfg.APITimeout, logger.WithComponent("api"))
	svc := app.NewAppService(client, st, notifier, logger.WithComponent("app"))

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           webAdapter.NewHandler(svc, notes, cfg.AllowedOrigins, logger.WithComponent("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logMain.Info().Str("port", cfg.ServerPort).Str("backend", cfg.APIURL).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logMain.Error().Err(err).Msg("server")
	}
}
