package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/to404hanga/ctf_checker/constants"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

// ReadinessProbe 恢复扫描完成后返回 true
type ReadinessProbe interface {
	IsReady() bool
}

type HealthHandler struct {
	probe ReadinessProbe
	log   loggerv2.Logger
}

var _ Handler = (*HealthHandler)(nil)

func NewHealthHandler(probe ReadinessProbe, log loggerv2.Logger) *HealthHandler {
	return &HealthHandler{
		probe: probe,
		log:   log,
	}
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET(constants.HealthPath, h.HealthCheck)
	r.GET(constants.ReadyPath, h.ReadyCheck)
}

func (h *HealthHandler) HealthCheck(ctx *gin.Context) {
	ctx.Status(http.StatusOK)
}

func (h *HealthHandler) ReadyCheck(ctx *gin.Context) {
	if !h.probe.IsReady() {
		h.log.Debug("ready check: checker not ready")
		ctx.Status(http.StatusServiceUnavailable)
		return
	}
	ctx.Status(http.StatusOK)
}
