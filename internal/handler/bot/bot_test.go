package bot

import (
	"context"
	"strings"
	"testing"

	"BiasDesk/internal/domain/models"
	"BiasDesk/internal/usecase"
	applogger "BiasDesk/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResponder struct {
	resp  *models.ChatResponse
	err   error
	calls int
	asset string
}

func (s *stubResponder) HandleChat(ctx context.Context, asset, question string) (*models.ChatResponse, error) {
	s.calls++
	s.asset = asset
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	return l
}

func chatResponse() *models.ChatResponse {
	return &models.ChatResponse{
		Asset: models.AssetBTC,
		Bias:  models.BiasBullish,
		Scores: models.ScoreResult{
			ConfidenceScore: 40,
			TopProbability:  60,
		},
		Reply: models.Advice{
			Advice:     "scale in slowly",
			Risk:       "momentum may fade",
			Disclaimer: "not financial advice",
		},
	}
}

func TestFindAsset(t *testing.T) {
	tests := []struct {
		text  string
		want  models.AssetSymbol
		found bool
	}{
		{"should I buy btc now?", models.AssetBTC, true},
		{"SPX trend", models.AssetSPX, true},
		{"thoughts on xau?", models.AssetXAU, true},
		{"silver means xag here", models.AssetXAG, true},
		{"spx before btc", models.AssetSPX, true}, // earliest mention wins
		{"what about gold?", "", false},
	}
	for _, tt := range tests {
		got, ok := FindAsset(tt.text)
		assert.Equal(t, tt.found, ok, tt.text)
		if tt.found {
			assert.Equal(t, tt.want, got, tt.text)
		}
	}
}

func TestFindTopic(t *testing.T) {
	topic, ok := FindTopic("is now a good time to BUY?")
	require.True(t, ok)
	assert.Equal(t, "buy", topic)

	topic, ok = FindTopic("sell or trend?") // earliest mention wins
	require.True(t, ok)
	assert.Equal(t, "sell", topic)

	_, ok = FindTopic("tell me a joke")
	assert.False(t, ok)
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StateAwaitingAsset, s.State)

	s = s.WithAsset(models.AssetXAU)
	assert.Equal(t, StateAwaitingQuestion, s.State)
	assert.Equal(t, models.AssetXAU, s.Asset)

	s = s.Reset()
	assert.Equal(t, StateAwaitingAsset, s.State)
	assert.Empty(t, s.Asset)
}

func TestHandleMessageStartGreets(t *testing.T) {
	rsp := &stubResponder{resp: chatResponse()}
	h := NewHandler(rsp, "", testLogger(t))

	out := h.handleMessage(context.Background(), "c1", "/start")
	assert.Equal(t, "reply", out.Type)
	assert.Contains(t, out.Text, "BTC")
	assert.Contains(t, out.Text, strings.Join(usecase.AllowedTopics, ", "))
	assert.Equal(t, 0, rsp.calls)
}

func TestHandleMessageCombinedShortCircuits(t *testing.T) {
	rsp := &stubResponder{resp: chatResponse()}
	h := NewHandler(rsp, "", testLogger(t))

	out := h.handleMessage(context.Background(), "c1", "should I buy BTC today?")
	assert.Equal(t, "reply", out.Type)
	assert.Equal(t, 1, rsp.calls)
	assert.Equal(t, "BTC", rsp.asset)
	assert.Contains(t, out.Text, "scale in slowly")
}

func TestHandleMessageTwoStageDialogue(t *testing.T) {
	rsp := &stubResponder{resp: chatResponse()}
	h := NewHandler(rsp, "", testLogger(t))
	ctx := context.Background()

	// stage 1: asset only
	out := h.handleMessage(ctx, "c1", "XAU")
	assert.Equal(t, "reply", out.Type)
	assert.Contains(t, out.Text, "XAU")
	assert.Equal(t, 0, rsp.calls)

	// stage 2: a question without an asset uses the remembered one
	out = h.handleMessage(ctx, "c1", "is this the top?")
	assert.Equal(t, "reply", out.Type)
	assert.Equal(t, 1, rsp.calls)
	assert.Equal(t, "XAU", rsp.asset)

	// session resets after an answer
	out = h.handleMessage(ctx, "c1", "is this the top?")
	assert.Equal(t, 1, rsp.calls, "no remembered asset after reset")
	assert.Contains(t, out.Text, "Which asset")
}

func TestHandleMessageOffTopicAtQuestionStage(t *testing.T) {
	rsp := &stubResponder{resp: chatResponse()}
	h := NewHandler(rsp, "", testLogger(t))
	ctx := context.Background()

	h.handleMessage(ctx, "c1", "BTC")
	out := h.handleMessage(ctx, "c1", "recite a poem")
	assert.Equal(t, "reply", out.Type)
	assert.Contains(t, out.Text, strings.Join(usecase.AllowedTopics, ", "))
	assert.Equal(t, 0, rsp.calls)
}

func TestHandleMessageValidationErrorSurfaces(t *testing.T) {
	rsp := &stubResponder{err: &usecase.ValidationError{
		Field:   "question",
		Message: "question does not mention a supported topic",
		Allowed: usecase.AllowedTopics,
	}}
	h := NewHandler(rsp, "", testLogger(t))

	out := h.handleMessage(context.Background(), "c1", "buy BTC")
	assert.Equal(t, "error", out.Type)
	assert.Contains(t, out.Text, "question")
}

func TestSessionsAreIndependentPerChat(t *testing.T) {
	rsp := &stubResponder{resp: chatResponse()}
	h := NewHandler(rsp, "", testLogger(t))
	ctx := context.Background()

	h.handleMessage(ctx, "alice", "XAU")
	h.handleMessage(ctx, "bob", "SPX")

	h.handleMessage(ctx, "alice", "should I sell?")
	assert.Equal(t, "XAU", rsp.asset)

	h.handleMessage(ctx, "bob", "should I sell?")
	assert.Equal(t, "SPX", rsp.asset)
}

func TestFormatReply(t *testing.T) {
	text := FormatReply(chatResponse())

	assert.Contains(t, text, "BTC (desk bias: bullish)")
	assert.Contains(t, text, "Advice: scale in slowly")
	assert.Contains(t, text, "Risk: momentum may fade")
	assert.Contains(t, text, "Confidence score: 40/100")
	assert.Contains(t, text, "Top probability: 60/90")
	assert.Contains(t, text, "not financial advice")
}

func TestFormatReplyRawFallback(t *testing.T) {
	resp := chatResponse()
	resp.Reply = models.Advice{}
	resp.RawReply = "the model said something unstructured"

	text := FormatReply(resp)
	assert.Contains(t, text, "the model said something unstructured")
	assert.Contains(t, text, "This is not financial advice.")
}
