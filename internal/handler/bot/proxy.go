package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"BiasDesk/internal/domain/models"
	"BiasDesk/internal/usecase"
	xhttp "BiasDesk/pkg/http"
)

// ProxyResponder answers through the HTTP API instead of calling the
// orchestrator in-process. Used when the bot runs separately from the
// advice service.
type ProxyResponder struct {
	baseURL string
	client  *xhttp.Client
}

func NewProxyResponder(baseURL string, timeout time.Duration) *ProxyResponder {
	return &ProxyResponder{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// HandleChat posts the question to the remote /chat endpoint. An envelope
// with a 400 status comes back as a *usecase.ValidationError so the dialogue
// layer treats remote and local validation the same way.
func (p *ProxyResponder) HandleChat(ctx context.Context, asset, question string) (*models.ChatResponse, error) {
	var env struct {
		Status  int             `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}

	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    p.baseURL + "/chat",
		Body:   models.ChatRequest{Asset: asset, Question: question},
	}, &env)
	if err != nil {
		return nil, fmt.Errorf("proxy chat: %w", err)
	}

	switch {
	case env.Status == http.StatusBadRequest:
		verr := &usecase.ValidationError{}
		if jerr := json.Unmarshal(env.Data, verr); jerr == nil && verr.Field != "" {
			return nil, verr
		}
		return nil, &usecase.ValidationError{Field: "request", Message: env.Message}
	case env.Status != http.StatusOK:
		return nil, fmt.Errorf("proxy chat: upstream status %d: %s", env.Status, env.Message)
	}

	resp := &models.ChatResponse{}
	if err := json.Unmarshal(env.Data, resp); err != nil {
		return nil, fmt.Errorf("proxy chat: decode response: %w", err)
	}
	return resp, nil
}
