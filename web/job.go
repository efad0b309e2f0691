package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/to404hanga/ctf_checker/constants"
	"github.com/to404hanga/ctf_checker/job"
	"github.com/to404hanga/ctf_checker/model"
	"github.com/to404hanga/ctf_checker/pkg/gintool"
	"github.com/to404hanga/pkg404/logger"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

// JobController 定时任务的运维操作
type JobController interface {
	GetJobStatuses() []job.JobStatus
	TriggerJob(name string) error
	EnableJob(name string) error
	DisableJob(name string) error
}

type JobHandler struct {
	scheduler JobController
	log       loggerv2.Logger
}

var _ Handler = (*JobHandler)(nil)

func NewJobHandler(scheduler JobController, log loggerv2.Logger) *JobHandler {
	return &JobHandler{
		scheduler: scheduler,
		log:       log,
	}
}

func (h *JobHandler) Register(r *gin.Engine) {
	r.GET(constants.GetJobStatusesPath, gintool.WrapWithoutBodyHandler(h.GetJobStatuses, h.log))
	r.POST(constants.TriggerJobPath, gintool.WrapHandler(h.TriggerJob, h.log))
	r.POST(constants.EnableJobPath, gintool.WrapHandler(h.EnableJob, h.log))
	r.POST(constants.DisableJobPath, gintool.WrapHandler(h.DisableJob, h.log))
}

func (h *JobHandler) GetJobStatuses(c *gin.Context, param *model.GetJobStatusesParam) {
	gintool.GinResponse(c, &gintool.Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    h.scheduler.GetJobStatuses(),
	})
}

// TriggerJob 异步执行, 结果通过 GetJobStatuses 查看
func (h *JobHandler) TriggerJob(c *gin.Context, param *model.JobNameParam) {
	h.respond(c, param, "Job triggered", h.scheduler.TriggerJob(param.Name))
}

func (h *JobHandler) EnableJob(c *gin.Context, param *model.JobNameParam) {
	h.respond(c, param, "Job enabled", h.scheduler.EnableJob(param.Name))
}

func (h *JobHandler) DisableJob(c *gin.Context, param *model.JobNameParam) {
	h.respond(c, param, "Job disabled", h.scheduler.DisableJob(param.Name))
}

func (h *JobHandler) respond(c *gin.Context, param *model.JobNameParam, msg string, err error) {
	ctx := loggerv2.ContextWithFields(c.Request.Context(),
		logger.String("job", param.Name),
		logger.Uint64("operator", param.Operator))

	code := http.StatusOK
	switch {
	case err == nil:
		h.log.InfoContext(ctx, msg)
		gintool.GinResponse(c, &gintool.Response{
			Code:    code,
			Message: "success",
		})
		return
	case errors.Is(err, job.ErrJobNotFound):
		code = http.StatusNotFound
	case errors.Is(err, job.ErrJobRunning):
		code = http.StatusConflict
	default:
		code = http.StatusInternalServerError
	}
	h.log.WarnContext(ctx, msg+" failed", logger.Error(err))
	gintool.GinResponse(c, &gintool.Response{
		Code:    code,
		Message: err.Error(),
	})
}
