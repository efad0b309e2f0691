package ioc

import (
	"log"

	"github.com/to404hanga/ctf_checker/checker"
	"github.com/to404hanga/ctf_checker/job"
	"github.com/to404hanga/ctf_checker/service"
	"github.com/to404hanga/ctf_checker/service/exporter/factory"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

func InitScheduler(l loggerv2.Logger, submissionSvc service.SubmissionService, enqueuer checker.Enqueuer, exporterFactory *factory.ExporterFactory) *job.CronScheduler {
	scheduler := job.NewCronScheduler(l)

	for _, jobCfg := range []*job.JobConfig{
		InitResweeper(submissionSvc, enqueuer, l),
		InitCheatReportArchiver(exporterFactory, l),
	} {
		if jobCfg == nil {
			continue
		}
		if err := scheduler.AddJob(jobCfg); err != nil {
			log.Panicf("add job %s failed: %v", jobCfg.Name, err)
		}
	}

	return scheduler
}
