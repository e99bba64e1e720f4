// internal/caixa/client.go
package caixa

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/xandekoch/scraper-leilao-caixa/internal/config"
	"github.com/xandekoch/scraper-leilao-caixa/internal/domain"
	"github.com/xandekoch/scraper-leilao-caixa/internal/metrics"
	"github.com/xandekoch/scraper-leilao-caixa/pkg/logger"
)

// Client replays the site's internal AJAX endpoints. All requests go through
// a shared token-bucket limiter and a retrying transport, so callers can fan
// out without coordinating courtesy between themselves.
type Client struct {
	http *resty.Client
	cfg  config.CaixaConfig
	log  *logger.Logger
}

// NewClient builds a client from config. Retries with exponential backoff
// happen at the transport level (connection errors, 429 and 5xx), and the
// limiter sits below the retrier, so every attempt waits for a token.
func NewClient(cfg config.CaixaConfig, log *logger.Logger) *Client {
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryPolicy.MaxRetries
	rc.RetryWaitMin = cfg.RetryPolicy.MinWait.Std()
	rc.RetryWaitMax = cfg.RetryPolicy.MaxWait.Std()
	rc.Logger = nil
	rc.HTTPClient.Transport = &rateLimitedTransport{
		limiter: limiter,
		base:    rc.HTTPClient.Transport,
	}

	hc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout.Std()).
		SetTransport(&retryablehttp.RoundTripper{Client: rc}).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html, */*; q=0.01").
		SetHeader("X-Requested-With", "XMLHttpRequest")

	return &Client{http: hc, cfg: cfg, log: log}
}

// rateLimitedTransport waits on the shared limiter before delegating. It sits
// inside the retrying client, so the retries it issues are paced too.
type rateLimitedTransport struct {
	limiter *rate.Limiter
	base    http.RoundTripper
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// Search replays the filtered listing search and returns the total record
// count plus the ordered pagination tokens.
func (c *Client) Search(ctx context.Context, f domain.SearchFilter) (*domain.SearchResult, error) {
	form := map[string]string{
		"hdn_estado":             f.State,
		"hdn_cidade":             f.CityCode,
		"hdn_bairro":             f.District,
		"hdn_tp_imovel":          f.PropertyType,
		"hdn_area_util":          f.UsableArea,
		"hdn_faixa_vlr":          f.PriceBand,
		"hdn_quartos":            f.Bedrooms,
		"hdn_vg_garagem":         f.Garage,
		"strValorSimulador":      "",
		"strAceitaFGTS":          "",
		"strAceitaFinanciamento": "",
	}
	body, err := c.postForm(ctx, "search", form)
	if err != nil {
		return nil, err
	}
	res, err := ParseSearchResponse(body)
	if err != nil {
		return nil, fmt.Errorf("search %s/%s: %w", f.State, f.CityCode, err)
	}
	return res, nil
}

// ListPage replays the paginated listing endpoint for one token and returns
// the result cards. The second value counts cards skipped for lacking an id.
func (c *Client) ListPage(ctx context.Context, token domain.PageToken) ([]domain.Property, int, error) {
	form := map[string]string{
		"hdnImov":   string(token),
		"hdnOrigem": "index",
	}
	body, err := c.postForm(ctx, "list", form)
	if err != nil {
		return nil, 0, err
	}
	cards, skipped, err := ParseListPage(body, c.cfg.BaseURL)
	if err != nil {
		return nil, 0, fmt.Errorf("list page: %w", err)
	}
	return cards, skipped, nil
}

// Detail replays the per-item detail endpoint and returns the extended
// fields for one property.
func (c *Client) Detail(ctx context.Context, id string) (*domain.Property, error) {
	form := map[string]string{
		"hdnimovel": id,
		"hdnOrigem": "index",
	}
	body, err := c.postForm(ctx, "detail", form)
	if err != nil {
		return nil, err
	}
	p, err := ParseDetailPage(body, c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("detail %s: %w", id, err)
	}
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}

// postForm sends one form POST and returns the decoded response body. Rate
// limiting happens in the transport, per attempt.
func (c *Client) postForm(ctx context.Context, endpoint string, form map[string]string) (io.Reader, error) {
	path, ok := c.cfg.Endpoints[endpoint]
	if !ok {
		return nil, fmt.Errorf("no endpoint configured for %q", endpoint)
	}

	metrics.Requests.WithLabelValues(endpoint).Inc()
	c.log.Debugw("replaying endpoint", "endpoint", endpoint, "path", path)

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(path)
	if err != nil {
		metrics.RequestFailures.WithLabelValues(endpoint).Inc()
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	if resp.StatusCode() != http.StatusOK {
		metrics.RequestFailures.WithLabelValues(endpoint).Inc()
		return nil, fmt.Errorf("POST %s: unexpected status %s", path, resp.Status())
	}

	return decodeBody(resp.Body(), resp.Header().Get("Content-Type"))
}

// decodeBody converts the response to UTF-8. The site serves ISO-8859-1 and
// the AJAX fragments usually carry no charset declaration, so that is the
// fallback when the header doesn't say otherwise.
func decodeBody(raw []byte, contentType string) (io.Reader, error) {
	if strings.Contains(strings.ToLower(contentType), "charset") {
		r, err := charset.NewReader(bytes.NewReader(raw), contentType)
		if err != nil {
			return nil, fmt.Errorf("decode response (%s): %w", contentType, err)
		}
		return r, nil
	}
	r, err := charset.NewReaderLabel("iso-8859-1", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return r, nil
}
