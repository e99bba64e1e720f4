// internal/api/handlers/scraping_test.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xandekoch/scraper-leilao-caixa/internal/domain"
	"github.com/xandekoch/scraper-leilao-caixa/internal/scraper"
	"github.com/xandekoch/scraper-leilao-caixa/pkg/logger"
)

type stubRunner struct {
	block   chan struct{} // when set, Run waits here
	started chan struct{}
	res     *scraper.RunResult
	err     error
}

func (s *stubRunner) Run(_ context.Context) (*scraper.RunResult, error) {
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	return s.res, s.err
}

type stubRepo struct {
	properties []domain.Property
	findErr    error
}

func (s *stubRepo) Save(_ context.Context, _ []domain.Property) (int, error) { return 0, nil }
func (s *stubRepo) FindAll(_ context.Context) ([]domain.Property, error) {
	return s.properties, s.findErr
}
func (s *stubRepo) Close() error { return nil }

func newTestRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	h.Register(r)
	return r
}

func TestHealthz(t *testing.T) {
	h := New(&stubRunner{}, nil, "", logger.NewNop())

	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestTriggerScrape(t *testing.T) {
	runner := &stubRunner{
		res: &scraper.RunResult{
			Summary: scraper.Summary{RunID: "abc", Total: 1},
			Properties: []domain.Property{
				{ID: "123", State: "SP", ScrapedAt: time.Now()},
			},
		},
	}
	csvPath := filepath.Join(t.TempDir(), "imoveis.csv")
	h := New(runner, nil, csvPath, logger.NewNop())
	router := newTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/scrape", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	// O run roda em background; espera o resumo aparecer no status
	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scrape/status", nil))
		var body struct {
			Running bool             `json:"running"`
			LastRun *scraper.Summary `json:"last_run"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			return false
		}
		return !body.Running && body.LastRun != nil && body.LastRun.RunID == "abc"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTriggerScrapeRejectsConcurrentRun(t *testing.T) {
	runner := &stubRunner{
		block:   make(chan struct{}),
		started: make(chan struct{}),
		res:     &scraper.RunResult{},
	}
	h := New(runner, nil, filepath.Join(t.TempDir(), "imoveis.csv"), logger.NewNop())
	router := newTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/scrape", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)
	<-runner.started

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/scrape", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(runner.block)
}

func TestScrapeStatusBeforeAnyRun(t *testing.T) {
	h := New(&stubRunner{}, nil, "", logger.NewNop())

	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scrape/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["running"])
	assert.Nil(t, body["last_run"])
}

func TestListPropertiesWithoutDatabase(t *testing.T) {
	h := New(&stubRunner{}, nil, "", logger.NewNop())

	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListProperties(t *testing.T) {
	repo := &stubRepo{properties: []domain.Property{{ID: "42", City: "CAMPINAS"}}}
	h := New(&stubRunner{}, repo, "", logger.NewNop())

	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Property
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "42", got[0].ID)
}

func TestListPropertiesRepositoryError(t *testing.T) {
	repo := &stubRepo{findErr: fmt.Errorf("conexão caiu")}
	h := New(&stubRunner{}, repo, "", logger.NewNop())

	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
