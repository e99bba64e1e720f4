// internal/api/handlers/scraping.go
package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xandekoch/scraper-leilao-caixa/internal/scraper"
	"github.com/xandekoch/scraper-leilao-caixa/internal/storage"
	"github.com/xandekoch/scraper-leilao-caixa/pkg/logger"
)

// ScrapeRunner is the part of scraper.Service the handlers drive.
type ScrapeRunner interface {
	Run(ctx context.Context) (*scraper.RunResult, error)
}

// Handler exposes the operational endpoints: run trigger, run status,
// stored rows, health and metrics.
type Handler struct {
	runner  ScrapeRunner
	repo    storage.Repository // nil when the database is disabled
	csvPath string
	log     *logger.Logger

	mu      sync.Mutex
	running bool
	last    *scraper.Summary
}

func New(runner ScrapeRunner, repo storage.Repository, csvPath string, log *logger.Logger) *Handler {
	return &Handler{runner: runner, repo: repo, csvPath: csvPath, log: log}
}

// Register mounts all routes on the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scrape", h.triggerScrape).Methods(http.MethodPost)
	api.HandleFunc("/scrape/status", h.scrapeStatus).Methods(http.MethodGet)
	api.HandleFunc("/properties", h.listProperties).Methods(http.MethodGet)
}

// triggerScrape starts a run in the background. Only one run at a time.
func (h *Handler) triggerScrape(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		writeJSON(w, http.StatusConflict, map[string]string{"error": "scrape already running"})
		return
	}
	h.running = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			h.running = false
			h.mu.Unlock()
		}()

		res, err := h.runner.Run(context.Background())
		if res != nil {
			h.mu.Lock()
			h.last = &res.Summary
			h.mu.Unlock()
		}
		if err != nil {
			h.log.Errorw("triggered run failed", "err", err)
			return
		}
		h.persist(res)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *Handler) persist(res *scraper.RunResult) {
	if n, err := storage.WriteCSV(h.csvPath, res.Properties); err != nil {
		h.log.Errorw("write csv failed", "path", h.csvPath, "err", err)
	} else {
		h.log.Infow("csv written", "path", h.csvPath, "rows", n)
	}

	if h.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	if n, err := h.repo.Save(ctx, res.Properties); err != nil {
		h.log.Errorw("save to database failed", "err", err)
	} else {
		h.log.Infow("rows upserted", "rows", n)
	}
}

func (h *Handler) scrapeStatus(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	running := h.running
	last := h.last
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"running":  running,
		"last_run": last,
	})
}

