package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"BiasDesk/internal/domain/models"
	"BiasDesk/internal/domain/repository"
	"BiasDesk/internal/service/biasstore"
	"BiasDesk/internal/usecase"
	applogger "BiasDesk/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "hunter2"

type noopMetrics struct{}

func (noopMetrics) RecordChatRequest(asset, outcome string)                   {}
func (noopMetrics) RecordLLMCall(outcome string)                              {}
func (noopMetrics) RecordUpstreamError(source string)                         {}
func (noopMetrics) RecordBiasRefresh(outcome string)                          {}
func (noopMetrics) RecordBias(asset, bias string)                             {}
func (noopMetrics) RecordScores(asset string, confidence, topProbability int) {}
func (noopMetrics) RecordLatency(op string, seconds float64)                  {}

type stubSource struct{ snap models.MarketSnapshot }

func (s *stubSource) FetchSnapshot(ctx context.Context) models.MarketSnapshot { return s.snap }

type stubAdvisor struct {
	advice models.Advice
	calls  int
}

func (a *stubAdvisor) Advise(ctx context.Context, req repository.AdviceRequest) (models.Advice, string, error) {
	a.calls++
	return a.advice, "", nil
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestHandler(t *testing.T) (*AdvisorEchoHandler, *biasstore.Store, *stubAdvisor) {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)

	store := biasstore.New()
	adv := &stubAdvisor{advice: models.Advice{Advice: "hold steady", Risk: "volatility", Disclaimer: "nfa"}}
	chat := usecase.NewChatOrchestrator(store, &stubSource{snap: models.DefaultSnapshot()}, adv, l, noopMetrics{})
	return NewAdvisorEchoHandler(l, chat, store, noopMetrics{}, testPassword), store, adv
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, path, body string) envelope {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	// transport status is always 200, the envelope carries the real one
	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestSetBiasHappyPath(t *testing.T) {
	h, store, _ := newTestHandler(t)
	env := doJSON(t, h.SetBias, http.MethodPost, "/admin/set-bias",
		`{"password":"hunter2","asset":"XAU","bias":"bullish"}`)

	assert.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, models.BiasBullish, store.Get(models.AssetXAU))
}

func TestSetBiasWrongPassword(t *testing.T) {
	h, store, _ := newTestHandler(t)
	env := doJSON(t, h.SetBias, http.MethodPost, "/admin/set-bias",
		`{"password":"guess","asset":"XAG","bias":"bearish"}`)

	assert.Equal(t, http.StatusForbidden, env.Status)
	assert.Equal(t, models.BiasNeutral, store.Get(models.AssetXAG))
}

func TestSetBiasRefreshOwnedAssetAlwaysRejected(t *testing.T) {
	h, store, _ := newTestHandler(t)

	// asset restriction is checked before the password, so the outcome is
	// the same whether or not the password is right
	for _, pw := range []string{testPassword, "wrong"} {
		for _, asset := range []string{"BTC", "SPX"} {
			env := doJSON(t, h.SetBias, http.MethodPost, "/admin/set-bias",
				`{"password":"`+pw+`","asset":"`+asset+`","bias":"bullish"}`)
			assert.Equal(t, http.StatusBadRequest, env.Status, "asset=%s pw=%s", asset, pw)
		}
	}
	assert.Equal(t, models.BiasNeutral, store.Get(models.AssetBTC))
}

func TestSetBiasInvalidBiasValue(t *testing.T) {
	h, _, _ := newTestHandler(t)
	env := doJSON(t, h.SetBias, http.MethodPost, "/admin/set-bias",
		`{"password":"hunter2","asset":"XAU","bias":"moon"}`)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestBiasReturnsFullMapping(t *testing.T) {
	h, store, _ := newTestHandler(t)
	store.ApplyRefresh(models.BiasBullish)

	env := doJSON(t, h.Bias, http.MethodGet, "/bias", "")
	require.Equal(t, http.StatusOK, env.Status)

	var m map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &m))
	assert.Len(t, m, 4)
	assert.Equal(t, "bullish", m["BTC"])
	assert.Equal(t, "bullish", m["SPX"])
	assert.Equal(t, "neutral", m["XAU"])
}

func TestChatHappyPath(t *testing.T) {
	h, _, adv := newTestHandler(t)
	env := doJSON(t, h.Chat, http.MethodPost, "/chat",
		`{"asset":"BTC","question":"should I buy the dip?"}`)

	require.Equal(t, http.StatusOK, env.Status)
	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "hold steady", resp.Reply.Advice)
	assert.Equal(t, 1, adv.calls)
}

func TestChatOffTopicReturnsErrorEnvelopeWithoutLLM(t *testing.T) {
	h, _, adv := newTestHandler(t)
	env := doJSON(t, h.Chat, http.MethodPost, "/chat",
		`{"asset":"BTC","question":"recite a poem"}`)

	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Equal(t, 0, adv.calls)

	var verr usecase.ValidationError
	require.NoError(t, json.Unmarshal(env.Data, &verr))
	assert.Equal(t, "question", verr.Field)
	assert.Equal(t, usecase.AllowedTopics, verr.Allowed)
}

func TestChatMissingFields(t *testing.T) {
	h, _, adv := newTestHandler(t)
	env := doJSON(t, h.Chat, http.MethodPost, "/chat", `{"asset":"BTC"}`)
	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Equal(t, 0, adv.calls)
}
