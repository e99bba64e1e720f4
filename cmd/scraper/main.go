// cmd/scraper/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/xandekoch/scraper-leilao-caixa/internal/caixa"
	"github.com/xandekoch/scraper-leilao-caixa/internal/config"
	"github.com/xandekoch/scraper-leilao-caixa/internal/scraper"
	"github.com/xandekoch/scraper-leilao-caixa/internal/storage"
	"github.com/xandekoch/scraper-leilao-caixa/pkg/logger"
)

func main() {
	// .env é opcional; só carrega credenciais de banco
	_ = godotenv.Load()

	cfg, err := config.Load("configs")
	if err != nil {
		logger.New("info").Fatalw("load config", "err", err)
	}
	log := logger.New(cfg.App.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := caixa.NewClient(cfg.Scraping.Caixa, log)
	svc := scraper.NewService(client, cfg.Scraping.Caixa.Targets, cfg.Scraping.Caixa.Workers, log)

	res, runErr := svc.Run(ctx)
	if runErr != nil && len(res.Properties) == 0 {
		log.Fatalw("scrape run failed", "err", runErr)
	}
	if runErr != nil {
		log.Warnw("scrape run finished with errors", "err", runErr)
	}

	rows, err := storage.WriteCSV(cfg.Output.CSVPath, res.Properties)
	if err != nil {
		log.Fatalw("write csv", "path", cfg.Output.CSVPath, "err", err)
	}
	log.Infow("csv written", "path", cfg.Output.CSVPath, "rows", rows)

	if cfg.Database.Enabled {
		repo, err := storage.NewPostgresRepository(cfg.Database)
		if err != nil {
			log.Fatalw("connect postgres", "err", err)
		}
		defer repo.Close()

		dbCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		saved, err := repo.Save(dbCtx, res.Properties)
		if err != nil {
			log.Fatalw("save to postgres", "err", err)
		}
		log.Infow("rows upserted", "rows", saved)
	}

	log.Infow("done",
		"run_id", res.Summary.RunID,
		"total", res.Summary.Total,
		"skipped_cards", res.Summary.SkippedCards,
		"page_errors", res.Summary.PageErrors,
		"detail_errors", res.Summary.DetailErrors,
		"duration", res.Summary.Duration,
	)
}
