package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/to404hanga/ctf_checker/checker"
	"github.com/to404hanga/ctf_checker/constants"
	"github.com/to404hanga/ctf_checker/model"
	"github.com/to404hanga/ctf_checker/pkg/gintool"
	"github.com/to404hanga/ctf_checker/service/exporter/factory"
	"github.com/to404hanga/pkg404/logger"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

// SubmissionChecker 处理器需要的判定器能力
type SubmissionChecker interface {
	checker.Enqueuer
	Status() checker.Status
}

type CheckerHandler struct {
	checker         SubmissionChecker
	exporterFactory *factory.ExporterFactory
	log             loggerv2.Logger
}

var _ Handler = (*CheckerHandler)(nil)

func NewCheckerHandler(checker SubmissionChecker, exporterFactory *factory.ExporterFactory, log loggerv2.Logger) *CheckerHandler {
	return &CheckerHandler{
		checker:         checker,
		exporterFactory: exporterFactory,
		log:             log,
	}
}

func (h *CheckerHandler) Register(r *gin.Engine) {
	r.POST(constants.EnqueueSubmissionPath, gintool.WrapHandler(h.EnqueueSubmission, h.log))
	r.GET(constants.GetCheckerStatusPath, gintool.WrapWithoutBodyHandler(h.GetCheckerStatus, h.log))
	r.GET(constants.ExportCheatReportPath, gintool.WrapHandler(h.ExportCheatReport, h.log))
}

// EnqueueSubmission 入队只依赖内存队列, 总是成功; 提交是否存在由判定时检查
func (h *CheckerHandler) EnqueueSubmission(c *gin.Context, param *model.EnqueueSubmissionParam) {
	h.checker.Enqueue(param.SubmissionID)
	enqueueSubmissionRequestsTotal.WithLabelValues(strconv.Itoa(http.StatusOK), "success").Inc()

	h.log.DebugContext(c.Request.Context(), "Submission enqueued",
		logger.Uint64("submission_id", param.SubmissionID),
		logger.Uint64("operator", param.Operator))
	gintool.GinResponse(c, &gintool.Response{
		Code:    http.StatusOK,
		Message: "success",
	})
}

func (h *CheckerHandler) GetCheckerStatus(c *gin.Context, param *model.GetCheckerStatusParam) {
	status := h.checker.Status()
	gintool.GinResponse(c, &gintool.Response{
		Code:    http.StatusOK,
		Message: "success",
		Data: model.GetCheckerStatusResponse{
			Ready:      status.Ready,
			QueueDepth: status.QueueDepth,
		},
	})
}

func (h *CheckerHandler) ExportCheatReport(c *gin.Context, param *model.ExportCheatReportParam) {
	start := time.Now()
	code, reason := http.StatusOK, "success"
	defer func() {
		labels := []string{strconv.Itoa(code), reason, param.Format}
		exportCheatReportRequestsTotal.WithLabelValues(labels...).Inc()
		exportCheatReportDurationSeconds.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
	}()

	ctx := loggerv2.ContextWithFields(c.Request.Context(),
		logger.Any("game_id", param.GameID),
		logger.String("format", param.Format))

	exporterType := factory.ParseExporterType(param.Format)
	exp := h.exporterFactory.GetExporter(exporterType)
	if exp == nil {
		code, reason = http.StatusBadRequest, "unknown_format"
		gintool.GinResponse(c, &gintool.Response{
			Code:    code,
			Message: fmt.Sprintf("Unknown export format: %s", param.Format),
		})
		h.log.ErrorContext(ctx, "Unknown export format")
		return
	}

	// 先写入内存, 导出失败时仍能返回错误响应
	var buf bytes.Buffer
	if err := exp.Export(ctx, param.GameID, &buf); err != nil {
		code, reason = http.StatusInternalServerError, "export_failed"
		gintool.GinResponse(c, &gintool.Response{
			Code:    code,
			Message: fmt.Sprintf("Export failed: %s", err.Error()),
		})
		h.log.ErrorContext(ctx, "Export failed", logger.Error(err))
		return
	}

	filename := cheatReportFilename(param.GameID, time.Now(), factory.ExporterSuffixMap[exporterType])
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, factory.ExporterContentTypeMap[exporterType], buf.Bytes())
}

func cheatReportFilename(gameID *uint64, now time.Time, suffix string) string {
	scope := "all"
	if gameID != nil {
		scope = "game_" + strconv.FormatUint(*gameID, 10)
	}
	return fmt.Sprintf("cheat_report_%s_%s%s", scope, now.Format("20060102150405"), suffix)
}
