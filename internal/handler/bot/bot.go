// Package bot is the conversational front end. Conversations run over a
// WebSocket connection; dialogue state is an explicit two-stage FSM keyed by
// conversation ID.
package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"BiasDesk/internal/domain/models"
	"BiasDesk/internal/usecase"
	xhttp "BiasDesk/pkg/http"
	applogger "BiasDesk/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Responder produces a chat answer. Satisfied by *usecase.ChatOrchestrator
// (local mode) and *ProxyResponder (proxy mode).
type Responder interface {
	HandleChat(ctx context.Context, asset, question string) (*models.ChatResponse, error)
}

// Frame is one bot message in either direction.
type Frame struct {
	Type   string `json:"type"` // message, reply, error
	ChatID string `json:"chat_id,omitempty"`
	Text   string `json:"text"`
}

// Handler serves the bot WebSocket endpoint.
type Handler struct {
	responder Responder
	sessions  *SessionStore
	token     string
	upgrader  websocket.Upgrader
	logger    *applogger.Logger
}

func NewHandler(responder Responder, token string, l *applogger.Logger) *Handler {
	return &Handler{
		responder: responder,
		sessions:  NewSessionStore(),
		token:     token,
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		logger:    l,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/bot/ws", h.Serve)
}

// Serve upgrades the connection and pumps messages until the peer goes away.
func (h *Handler) Serve(c echo.Context) error {
	if h.token != "" && c.QueryParam("token") != h.token {
		return xhttp.ForbiddenResponse(c, xhttp.ForbiddenError("invalid bot token"))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("ws upgrade: %w", err)
	}
	defer conn.Close()

	// One connection is one conversation unless the client names its own.
	defaultChatID := c.Request().RemoteAddr
	ctx := c.Request().Context()

	for {
		var in Frame
		if err := conn.ReadJSON(&in); err != nil {
			h.logger.Debug("bot connection closed", applogger.Error(err))
			h.sessions.Delete(defaultChatID)
			return nil
		}

		chatID := in.ChatID
		if chatID == "" {
			chatID = defaultChatID
		}

		out := h.handleMessage(ctx, chatID, in.Text)
		out.ChatID = in.ChatID
		if err := conn.WriteJSON(out); err != nil {
			h.logger.Warn("bot write failed", applogger.Error(err))
			return nil
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, chatID, text string) Frame {
	text = strings.TrimSpace(text)

	if text == "/start" || text == "" {
		h.sessions.Put(chatID, NewSession())
		return Frame{Type: "reply", Text: Greeting()}
	}

	asset, hasAsset := FindAsset(text)
	_, hasTopic := FindTopic(text)

	// both in one message: skip the dialogue entirely
	if hasAsset && hasTopic {
		h.sessions.Put(chatID, NewSession())
		return h.answer(ctx, asset, text)
	}

	session := h.sessions.Get(chatID)
	switch session.State {
	case StateAwaitingAsset:
		if !hasAsset {
			return Frame{Type: "reply", Text: "Which asset? I cover BTC, SPX, XAU and XAG."}
		}
		h.sessions.Put(chatID, session.WithAsset(asset))
		return Frame{Type: "reply", Text: fmt.Sprintf(
			"%s it is. What do you want to know? I can talk about: %s.",
			asset, strings.Join(usecase.AllowedTopics, ", "))}

	case StateAwaitingQuestion:
		if !hasTopic {
			return Frame{Type: "reply", Text: fmt.Sprintf(
				"I can only answer questions about: %s. Try again.",
				strings.Join(usecase.AllowedTopics, ", "))}
		}
		h.sessions.Put(chatID, session.Reset())
		return h.answer(ctx, session.Asset, text)

	default:
		h.sessions.Put(chatID, NewSession())
		return Frame{Type: "reply", Text: Greeting()}
	}
}

func (h *Handler) answer(ctx context.Context, asset models.AssetSymbol, question string) Frame {
	resp, err := h.responder.HandleChat(ctx, string(asset), question)
	if err != nil {
		var verr *usecase.ValidationError
		if errors.As(err, &verr) {
			return Frame{Type: "error", Text: verr.Error()}
		}
		h.logger.Error("bot chat failed", applogger.Error(err))
		return Frame{Type: "error", Text: "I could not reach the advice engine, please try again later."}
	}
	return Frame{Type: "reply", Text: FormatReply(resp)}
}

// Greeting is the /start message.
func Greeting() string {
	return fmt.Sprintf(
		"Hi! I answer trading questions for BTC, SPX, XAU and XAG.\n"+
			"Name an asset to begin, or ask directly, e.g. \"should I buy BTC?\".\n"+
			"Topics I cover: %s.",
		strings.Join(usecase.AllowedTopics, ", "))
}

// FormatReply renders a ChatResponse as the structured text block the bot
// sends back.
func FormatReply(resp *models.ChatResponse) string {
	advice := resp.Reply.Advice
	risk := resp.Reply.Risk
	disclaimer := resp.Reply.Disclaimer
	if resp.RawReply != "" {
		advice = resp.RawReply
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (desk bias: %s)\n\n", resp.Asset, resp.Bias)
	fmt.Fprintf(&b, "Advice: %s\n", advice)
	if risk != "" {
		fmt.Fprintf(&b, "Risk: %s\n", risk)
	}
	fmt.Fprintf(&b, "Confidence score: %d/100\n", resp.Scores.ConfidenceScore)
	fmt.Fprintf(&b, "Top probability: %d/90\n", resp.Scores.TopProbability)
	if disclaimer == "" {
		disclaimer = "This is not financial advice."
	}
	fmt.Fprintf(&b, "\n%s", disclaimer)
	return b.String()
}
