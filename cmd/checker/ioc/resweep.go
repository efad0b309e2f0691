package ioc

import (
	"time"

	"github.com/to404hanga/ctf_checker/checker"
	"github.com/to404hanga/ctf_checker/config"
	commonioc "github.com/to404hanga/ctf_checker/ioc"
	"github.com/to404hanga/ctf_checker/job"
	"github.com/to404hanga/ctf_checker/job/resweep"
	"github.com/to404hanga/ctf_checker/service"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

// InitResweeper 未配置 cron 表达式时返回 nil; 配置了但未启用时仍注册, 可通过接口启用
func InitResweeper(submissionSvc service.SubmissionService, enqueuer checker.Enqueuer, l loggerv2.Logger) *job.JobConfig {
	var cfg config.ResweepConfig
	commonioc.UnmarshalConfig(&cfg)
	if cfg.CronExpr == "" {
		return nil
	}

	r := resweep.NewResweeper(submissionSvc, enqueuer, l, time.Duration(cfg.StaleAfter)*time.Second)
	return &job.JobConfig{
		Name:        resweep.JobName,
		CronExpr:    cfg.CronExpr,
		JobFunc:     r.RunResweep,
		Description: "重新入队长时间未判定的提交",
		Enabled:     cfg.Enabled,
		Timeout:     time.Duration(cfg.Timeout) * time.Millisecond,
	}
}
