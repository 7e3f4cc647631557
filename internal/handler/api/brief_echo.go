package api

import (
	"time"

	"MarketBrief/internal/domain/models"
	"MarketBrief/internal/service/ratelimit"
	"MarketBrief/internal/usecase"
	xhttp "MarketBrief/pkg/http"
	xlogger "MarketBrief/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RateLimits configures the per-client token bucket; zero disables limiting.
type RateLimits struct {
	Enabled bool
	Rate    float64 // tokens per second
	Burst   float64
}

// BriefEchoHandler exposes the brief, snapshot, pulse, and refresh endpoints.
type BriefEchoHandler struct {
	logger *xlogger.Logger
	uc     *usecase.BriefUseCase
	rl     *ratelimit.Limiter
	limits RateLimits
}

func NewBriefEchoHandler(logger *xlogger.Logger, uc *usecase.BriefUseCase, limits RateLimits) *BriefEchoHandler {
	return &BriefEchoHandler{logger: logger, uc: uc, rl: ratelimit.New(), limits: limits}
}

func (h *BriefEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/brief", h.Brief)
	g.GET("/snapshot", h.Snapshot)
	g.GET("/pulse", h.Pulse)
	g.POST("/refresh", h.Refresh)
}

func (h *BriefEchoHandler) allow(c echo.Context, op string) bool {
	if !h.limits.Enabled {
		return true
	}
	return h.rl.Allow(c.RealIP()+":"+op, h.limits.Burst, h.limits.Rate)
}

func (h *BriefEchoHandler) Brief(c echo.Context) error {
	if !h.allow(c, "brief") {
		return xhttp.TooManyRequestsResponse(c, "rate limit exceeded")
	}
	req := &models.BriefRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.Brief(c.Request().Context(), req.Force)
	if err != nil {
		h.logger.Error("brief usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *BriefEchoHandler) Snapshot(c echo.Context) error {
	if !h.allow(c, "snapshot") {
		return xhttp.TooManyRequestsResponse(c, "rate limit exceeded")
	}
	req := &models.BriefRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	snap := h.uc.Snapshot(c.Request().Context(), req.Force)
	return xhttp.SuccessResponse(c, xhttp.EnvelopedData{
		Data:      snap,
		UpdatedAt: time.Now().UnixMilli(),
	})
}

func (h *BriefEchoHandler) Pulse(c echo.Context) error {
	if !h.allow(c, "pulse") {
		return xhttp.TooManyRequestsResponse(c, "rate limit exceeded")
	}
	req := &models.BriefRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res := h.uc.Pulse(c.Request().Context(), req.Force)
	return xhttp.SuccessResponse(c, res)
}

func (h *BriefEchoHandler) Refresh(c echo.Context) error {
	if !h.allow(c, "refresh") {
		return xhttp.TooManyRequestsResponse(c, "rate limit exceeded")
	}
	req := &models.RefreshRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.uc.Refresh(c.Request().Context(), req.Target); err != nil {
		h.logger.Error("refresh usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}
