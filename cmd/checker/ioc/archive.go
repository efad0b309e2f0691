package ioc

import (
	"time"

	"github.com/to404hanga/ctf_checker/config"
	commonioc "github.com/to404hanga/ctf_checker/ioc"
	"github.com/to404hanga/ctf_checker/job"
	"github.com/to404hanga/ctf_checker/job/archive"
	"github.com/to404hanga/ctf_checker/service/exporter/factory"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

// InitCheatReportArchiver 未启用时返回 nil, 也不会连接 minio
func InitCheatReportArchiver(exporterFactory *factory.ExporterFactory, l loggerv2.Logger) *job.JobConfig {
	var cfg config.ArchiveConfig
	commonioc.UnmarshalConfig(&cfg)
	if !cfg.Enabled {
		return nil
	}

	format := factory.ParseExporterType(cfg.Format)
	if format == factory.UnknownExporter {
		format = factory.CSVExporter
	}

	storage := commonioc.InitMinIO(l, cfg.Endpoint, cfg.UseSSL, cfg.Bucket)
	a := archive.NewCheatReportArchiver(exporterFactory, storage, l, cfg.Bucket, format,
		time.Duration(cfg.RetentionDays)*24*time.Hour)
	return &job.JobConfig{
		Name:        archive.JobName,
		CronExpr:    cfg.CronExpr,
		JobFunc:     a.RunArchive,
		Description: "导出作弊提交报表并上传到对象存储",
		Enabled:     cfg.Enabled,
		Timeout:     time.Duration(cfg.Timeout) * time.Millisecond,
	}
}
