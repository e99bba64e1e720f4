// internal/scraper/service.go
package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xandekoch/scraper-leilao-caixa/internal/domain"
	"github.com/xandekoch/scraper-leilao-caixa/internal/metrics"
	"github.com/xandekoch/scraper-leilao-caixa/pkg/logger"
)

// Fetcher is the endpoint-replay surface the service drives. Implemented by
// caixa.Client; stubbed in tests.
type Fetcher interface {
	Search(ctx context.Context, f domain.SearchFilter) (*domain.SearchResult, error)
	ListPage(ctx context.Context, token domain.PageToken) ([]domain.Property, int, error)
	Detail(ctx context.Context, id string) (*domain.Property, error)
}

// Service runs the two/three-step request sequence for every configured
// target and fans per-item detail fetches out over a bounded worker pool.
type Service struct {
	fetcher Fetcher
	log     *logger.Logger
	targets []domain.SearchFilter
	workers int
}

// Summary describes one finished run.
type Summary struct {
	RunID        string    `json:"run_id"`
	StartedAt    time.Time `json:"started_at"`
	Duration     string    `json:"duration"`
	Total        int       `json:"total"`
	SkippedCards int       `json:"skipped_cards"`
	PageErrors   int       `json:"page_errors"`
	DetailErrors int       `json:"detail_errors"`
	TargetErrors []string  `json:"target_errors,omitempty"`
}

// RunResult carries the scraped rows plus the run summary.
type RunResult struct {
	Summary    Summary
	Properties []domain.Property
}

func NewService(fetcher Fetcher, targets []domain.SearchFilter, workers int, log *logger.Logger) *Service {
	if workers <= 0 {
		workers = 1
	}
	return &Service{fetcher: fetcher, log: log, targets: targets, workers: workers}
}

// Run scrapes all configured targets. Per-page and per-detail failures are
// tolerated and counted; a target only fails as a whole when its search
// fails. Run returns an error when the context is cancelled or every target
// failed.
func (s *Service) Run(ctx context.Context) (*RunResult, error) {
	started := time.Now()
	res := &RunResult{Summary: Summary{
		RunID:     uuid.NewString(),
		StartedAt: started.UTC(),
	}}

	s.log.Infow("scrape run starting", "run_id", res.Summary.RunID, "targets", len(s.targets))

	failed := 0
	for _, target := range s.targets {
		props, err := s.scrapeTarget(ctx, target, &res.Summary)
		if err != nil {
			failed++
			res.Summary.TargetErrors = append(res.Summary.TargetErrors,
				fmt.Sprintf("%s/%s: %v", target.State, target.CityCode, err))
			s.log.Errorw("target failed", "uf", target.State, "cidade", target.CityCode, "err", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		res.Properties = append(res.Properties, props...)
	}

	res.Summary.Total = len(res.Properties)
	res.Summary.Duration = time.Since(started).Round(time.Millisecond).String()

	metrics.RunDuration.Observe(time.Since(started).Seconds())
	metrics.PropertiesScraped.Add(float64(res.Summary.Total))

	status := "ok"
	switch {
	case ctx.Err() != nil:
		status = "cancelled"
	case failed == len(s.targets) && failed > 0:
		status = "failed"
	case failed > 0 || res.Summary.DetailErrors > 0 || res.Summary.PageErrors > 0:
		status = "partial"
	}
	metrics.Runs.WithLabelValues(status).Inc()

	s.log.Infow("scrape run finished",
		"run_id", res.Summary.RunID,
		"status", status,
		"total", res.Summary.Total,
		"duration", res.Summary.Duration,
	)

	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	if failed > 0 && failed == len(s.targets) {
		return res, fmt.Errorf("all %d targets failed", failed)
	}
	return res, nil
}

// scrapeTarget runs search → pages → detail pool for one UF/city target.
func (s *Service) scrapeTarget(ctx context.Context, f domain.SearchFilter, sum *Summary) ([]domain.Property, error) {
	search, err := s.fetcher.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	s.log.Infow("search done",
		"uf", f.State, "cidade", f.CityCode,
		"total", search.Total, "pages", len(search.Pages),
	)

	var cards []domain.Property
	for i, token := range search.Pages {
		got, skipped, err := s.fetcher.ListPage(ctx, token)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			sum.PageErrors++
			s.log.Warnw("listing page failed", "uf", f.State, "page", i+1, "err", err)
			continue
		}
		sum.SkippedCards += skipped
		cards = append(cards, got...)
	}

	// Endereço do card nem sempre traz cidade/UF; o filtro sabe.
	for i := range cards {
		if cards[i].State == "" {
			cards[i].State = f.State
		}
	}

	return s.fillDetails(ctx, cards, sum), nil
}

// fillDetails fetches detail pages over the bounded pool and merges them
// into the cards. Card order is preserved.
func (s *Service) fillDetails(ctx context.Context, cards []domain.Property, sum *Summary) []domain.Property {
	if len(cards) == 0 {
		return cards
	}

	out := make([]domain.Property, len(cards))
	copy(out, cards)

	workers := s.workers
	if workers > len(out) {
		workers = len(out)
	}

	type detailResult struct {
		index  int
		detail *domain.Property
		err    error
	}

	jobs := make(chan int)
	results := make(chan detailResult, len(out))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				d, err := s.fetcher.Detail(ctx, out[idx].ID)
				results <- detailResult{index: idx, detail: d, err: err}
			}
		}()
	}

	go func() {
		defer func() {
			close(jobs)
			wg.Wait()
			close(results)
		}()
		for i := range out {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	for r := range results {
		if r.err != nil {
			sum.DetailErrors++
			s.log.Warnw("detail failed", "id", out[r.index].ID, "err", r.err)
			continue
		}
		mergeDetail(&out[r.index], r.detail)
	}

	return out
}

// mergeDetail folds detail-page fields into a card. Detail values win when
// present; an absent detail field never blanks a card field.
func mergeDetail(card *domain.Property, d *domain.Property) {
	if d == nil {
		return
	}
	card.PropertyType = d.PropertyType
	card.Bedrooms = d.Bedrooms
	card.GarageSpots = d.GarageSpots
	card.TotalArea = d.TotalArea
	card.PrivateArea = d.PrivateArea
	card.LandArea = d.LandArea
	card.Registration = d.Registration
	card.RegistryOffice = d.RegistryOffice
	card.Comarca = d.Comarca
	card.TaxID = d.TaxID
	card.Situation = d.Situation
	card.AcceptsFGTS = d.AcceptsFGTS
	card.AcceptsFinancing = d.AcceptsFinancing
	card.Documents = d.Documents
	card.Photos = d.Photos

	if d.Title != "" && card.Title == "" {
		card.Title = d.Title
	}
	if d.Description != "" {
		card.Description = d.Description
	}
	if d.SaleMode != "" {
		card.SaleMode = d.SaleMode
	}
	if d.Address != "" {
		card.Address = d.Address
		if d.District != "" {
			card.District = d.District
		}
		if d.City != "" {
			card.City = d.City
		}
		if d.State != "" {
			card.State = d.State
		}
	}
	if d.Appraisal > 0 {
		card.Appraisal = d.Appraisal
	}
	if d.Price > 0 {
		card.Price = d.Price
	}
	if d.Discount > 0 {
		card.Discount = d.Discount
	}
}
