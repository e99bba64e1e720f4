// cmd/api-service/main.go
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

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/xandekoch/scraper-leilao-caixa/internal/api/handlers"
	"github.com/xandekoch/scraper-leilao-caixa/internal/caixa"
	"github.com/xandekoch/scraper-leilao-caixa/internal/config"
	"github.com/xandekoch/scraper-leilao-caixa/internal/scraper"
	"github.com/xandekoch/scraper-leilao-caixa/internal/storage"
	"github.com/xandekoch/scraper-leilao-caixa/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("configs")
	if err != nil {
		logger.New("info").Fatalw("load config", "err", err)
	}
	log := logger.New(cfg.App.LogLevel)
	defer func() { _ = log.Sync() }()

	client := caixa.NewClient(cfg.Scraping.Caixa, log)
	svc := scraper.NewService(client, cfg.Scraping.Caixa.Targets, cfg.Scraping.Caixa.Workers, log)

	var repo storage.Repository
	if cfg.Database.Enabled {
		pg, err := storage.NewPostgresRepository(cfg.Database)
		if err != nil {
			log.Fatalw("connect postgres", "err", err)
		}
		defer pg.Close()
		repo = pg
	}

	r := mux.NewRouter()
	handlers.New(svc, repo, cfg.Output.CSVPath, log).Register(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("api service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("listen", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("shutdown", "err", err)
	}
}
