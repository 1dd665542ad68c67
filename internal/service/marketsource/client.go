// Package marketsource adapts the external bias site into a total
// MarketSource: whatever the upstream does, FetchSnapshot returns a usable
// snapshot with defaulted fields instead of an error.
package marketsource

import (
	"context"
	"regexp"
	"strings"
	"time"

	"BiasDesk/internal/domain/models"
	"BiasDesk/internal/domain/repository"
	"BiasDesk/pkg/config"
	xhttp "BiasDesk/pkg/http"
	applogger "BiasDesk/pkg/logger"
	"BiasDesk/pkg/util"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// gjson paths used when the upstream body is clean JSON.
const (
	pathLastSignal = "lastSignal"
	pathRatio      = "ratio"
	pathSlowMA     = "slowMA"
	pathPrice      = "price"

	// nested payload of the secondary realized-price endpoint
	pathRealizedPrice = "data.metrics.short_term_realized_price"
)

// Regex fallbacks for when the signal page embeds the JSON blob in markup.
var (
	reLastSignal = regexp.MustCompile(`"lastSignal"\s*:\s*"([A-Za-z]+)"`)
	reRatio      = regexp.MustCompile(`"ratio"\s*:\s*"?(-?[0-9][0-9,]*\.?[0-9]*)`)
	reSlowMA     = regexp.MustCompile(`"slowMA"\s*:\s*"?(-?[0-9][0-9,]*\.?[0-9]*)`)
	rePrice      = regexp.MustCompile(`"price"\s*:\s*"?(-?[0-9][0-9,]*\.?[0-9]*)`)
)

// Client fetches the two upstream endpoints and extracts the snapshot fields.
type Client struct {
	signalURL   string
	realizedURL string
	cookie      string
	http        *xhttp.Client
	logger      *applogger.Logger
	metrics     repository.Metrics
}

// New creates a market source client from config.
func New(cfg *config.Config, l *applogger.Logger, m repository.Metrics) *Client {
	timeout := cfg.Market.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		signalURL:   cfg.Market.SignalURL,
		realizedURL: cfg.Market.RealizedURL,
		cookie:      cfg.Market.Cookie,
		http:        xhttp.NewClient(xhttp.WithTimeout(timeout)),
		logger:      l,
		metrics:     m,
	}
}

// FetchSnapshot consults both endpoints concurrently. Failures in either are
// independently defaulted; this method never returns an error.
func (c *Client) FetchSnapshot(ctx context.Context) models.MarketSnapshot {
	snap := models.DefaultSnapshot()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.fillSignalFields(gctx, &snap)
		return nil
	})
	g.Go(func() error {
		c.fillRealizedPrice(gctx, &snap)
		return nil
	})
	_ = g.Wait()

	return snap
}

func (c *Client) fillSignalFields(ctx context.Context, snap *models.MarketSnapshot) {
	body, err := c.get(ctx, c.signalURL)
	if err != nil {
		c.logger.Warn("signal source fetch failed", applogger.Error(err))
		c.metrics.RecordUpstreamError("signal")
		return
	}

	if gjson.Valid(body) {
		snap.LastSignal = parseSignal(gjson.Get(body, pathLastSignal).String())
		snap.Ratio = floatField(gjson.Get(body, pathRatio))
		snap.SlowMA = floatField(gjson.Get(body, pathSlowMA))
		snap.Price = floatField(gjson.Get(body, pathPrice))
		return
	}

	// Not clean JSON: the page wraps the blob in markup, scrape it out.
	snap.LastSignal = parseSignal(util.FirstSubmatch(reLastSignal, body))
	snap.Ratio = util.ParseFloatPtr(util.FirstSubmatch(reRatio, body))
	snap.SlowMA = util.ParseFloatPtr(util.FirstSubmatch(reSlowMA, body))
	snap.Price = util.ParseFloatPtr(util.FirstSubmatch(rePrice, body))

	if snap.Ratio == nil && snap.SlowMA == nil && snap.Price == nil {
		c.logger.Warn("signal source body unparseable")
		c.metrics.RecordUpstreamError("signal_parse")
	}
}

func (c *Client) fillRealizedPrice(ctx context.Context, snap *models.MarketSnapshot) {
	body, err := c.get(ctx, c.realizedURL)
	if err != nil {
		c.logger.Warn("realized price fetch failed", applogger.Error(err))
		c.metrics.RecordUpstreamError("realized")
		return
	}

	v := gjson.Get(body, pathRealizedPrice)
	if !v.Exists() || v.Float() == 0 {
		c.logger.Warn("realized price missing from payload")
		c.metrics.RecordUpstreamError("realized_parse")
		return
	}
	f := v.Float()
	snap.ShortTermRealizedPrice = &f
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	headers := map[string]string{
		"Accept": "application/json, text/html",
	}
	if c.cookie != "" {
		headers["Cookie"] = c.cookie
	}

	var raw []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     url,
		Headers: headers,
	}, &raw)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func parseSignal(s string) models.Signal {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return models.SignalBuy
	case "SELL":
		return models.SignalSell
	default:
		return models.SignalHold
	}
}

func floatField(r gjson.Result) *float64 {
	if !r.Exists() {
		return nil
	}
	switch r.Type {
	case gjson.Number:
		f := r.Float()
		return &f
	case gjson.String:
		return util.ParseFloatPtr(r.String())
	default:
		return nil
	}
}
