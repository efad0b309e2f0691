package ioc

import (
	"github.com/to404hanga/ctf_checker/config"
	"github.com/to404hanga/ctf_checker/service"
	"github.com/to404hanga/ctf_checker/service/exporter/factory"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

func InitExporterFactory(submissionSvc service.SubmissionService, l loggerv2.Logger) *factory.ExporterFactory {
	var cfg config.ExporterConfig
	UnmarshalConfig(&cfg)
	return factory.NewExporterFactory(submissionSvc, l, cfg.BatchSize)
}
