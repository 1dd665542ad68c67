package bot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"BiasDesk/internal/domain/models"
	"BiasDesk/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelopeBody(t *testing.T, status int, message string, data any) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"status":  status,
		"message": message,
		"data":    data,
	})
	require.NoError(t, err)
	return raw
}

func TestProxyResponderSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)

		var req models.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "BTC", req.Asset)

		w.Write(envelopeBody(t, http.StatusOK, "success", chatResponse()))
	}))
	defer srv.Close()

	p := NewProxyResponder(srv.URL, time.Second)
	resp, err := p.HandleChat(context.Background(), "BTC", "should I buy?")
	require.NoError(t, err)
	assert.Equal(t, models.AssetBTC, resp.Asset)
	assert.Equal(t, "scale in slowly", resp.Reply.Advice)
}

func TestProxyResponderValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelopeBody(t, http.StatusBadRequest, "bad request", usecase.ValidationError{
			Field:   "question",
			Message: "question does not mention a supported topic",
			Allowed: usecase.AllowedTopics,
		}))
	}))
	defer srv.Close()

	p := NewProxyResponder(srv.URL, time.Second)
	_, err := p.HandleChat(context.Background(), "BTC", "recite a poem")
	require.Error(t, err)

	var verr *usecase.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "question", verr.Field)
	assert.Equal(t, usecase.AllowedTopics, verr.Allowed)
}

func TestProxyResponderUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelopeBody(t, http.StatusInternalServerError, "advice temporarily unavailable", nil))
	}))
	defer srv.Close()

	p := NewProxyResponder(srv.URL, time.Second)
	_, err := p.HandleChat(context.Background(), "BTC", "should I buy?")
	require.Error(t, err)

	var verr *usecase.ValidationError
	assert.False(t, errors.As(err, &verr), "server errors are not validation errors")
	assert.Contains(t, err.Error(), "500")
}

func TestProxyResponderUnreachable(t *testing.T) {
	p := NewProxyResponder("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := p.HandleChat(context.Background(), "BTC", "should I buy?")
	assert.Error(t, err)
}
