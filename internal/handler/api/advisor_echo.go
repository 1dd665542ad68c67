package api

import (
	"crypto/subtle"
	"errors"
	"strings"

	"BiasDesk/internal/domain/models"
	"BiasDesk/internal/domain/repository"
	"BiasDesk/internal/usecase"
	xhttp "BiasDesk/pkg/http"
	xlogger "BiasDesk/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

// AdvisorEchoHandler exposes the bias-admin, bias-read and chat endpoints.
type AdvisorEchoHandler struct {
	logger        *xlogger.Logger
	chat          *usecase.ChatOrchestrator
	store         repository.BiasStore
	metrics       repository.Metrics
	adminPassword string
}

func NewAdvisorEchoHandler(
	logger *xlogger.Logger,
	chat *usecase.ChatOrchestrator,
	store repository.BiasStore,
	metrics repository.Metrics,
	adminPassword string,
) *AdvisorEchoHandler {
	return &AdvisorEchoHandler{
		logger:        logger,
		chat:          chat,
		store:         store,
		metrics:       metrics,
		adminPassword: adminPassword,
	}
}

func (h *AdvisorEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/admin/set-bias", h.SetBias)
	e.GET("/bias", h.Bias)
	e.POST("/chat", h.Chat)
}

// SetBias mutates the bias of a manually-managed asset. Shape and asset
// validation run before the password check, so a request naming BTC or SPX
// always gets a 400 regardless of credentials.
func (h *AdvisorEchoHandler) SetBias(c echo.Context) error {
	req := &models.SetBiasRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	asset, ok := models.ParseAsset(req.Asset)
	if !ok || !models.IsManualBiasAsset(asset) {
		return xhttp.BadRequestResponse(c,
			xhttp.BadRequestErrorf("asset must be one of: %s", joinAssets(models.ManualBiasAssets)))
	}

	bias, ok := models.ParseBias(req.Bias)
	if !ok {
		return xhttp.BadRequestResponse(c,
			xhttp.BadRequestErrorf("bias must be one of: %s", joinBiases(models.AllBiases)))
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) != 1 {
		h.logger.Warn("admin set-bias rejected", xlogger.String("asset", string(asset)))
		return xhttp.ForbiddenResponse(c, xhttp.ForbiddenError("invalid password"))
	}

	if err := h.store.Set(asset, bias); err != nil {
		return xhttp.BadRequestResponse(c, xhttp.BadRequestError(err.Error()))
	}

	h.metrics.RecordBias(string(asset), string(bias))
	h.logger.Info("bias overridden",
		xlogger.String("asset", string(asset)),
		xlogger.String("bias", string(bias)),
	)
	return xhttp.SuccessResponse(c, models.SetBiasResponse{Success: true, Asset: asset, Bias: bias})
}

// Bias returns the full asset→bias mapping.
func (h *AdvisorEchoHandler) Bias(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.store.Snapshot())
}

// Chat answers one canned trading question about one asset.
func (h *AdvisorEchoHandler) Chat(c echo.Context) error {
	req := &models.ChatRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	resp, err := h.chat.HandleChat(c.Request().Context(), req.Asset, req.Question)
	if err != nil {
		var verr *usecase.ValidationError
		if errors.As(err, &verr) {
			return xhttp.BadRequestResponse(c, verr)
		}
		h.logger.Error("chat usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("advice temporarily unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, resp)
}

func joinAssets(assets []models.AssetSymbol) string {
	return strings.Join(lo.Map(assets, func(a models.AssetSymbol, _ int) string { return string(a) }), ", ")
}

func joinBiases(biases []models.BiasValue) string {
	return strings.Join(lo.Map(biases, func(b models.BiasValue, _ int) string { return string(b) }), ", ")
}
