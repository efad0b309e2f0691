package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/to404hanga/ctf_checker/pkg/minio"
	"github.com/to404hanga/ctf_checker/service/exporter/factory"
	"github.com/to404hanga/pkg404/logger"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

const (
	JobName      = "archive"
	objectPrefix = "cheat_report/"
)

// CheatReportArchiver 定期把全量作弊报表归档到对象存储, 并清理超过保留期的旧报表
type CheatReportArchiver struct {
	exporterFactory *factory.ExporterFactory
	storage         minio.ObjectStorage
	log             loggerv2.Logger
	bucket          string
	format          factory.ExporterType
	retention       time.Duration
	now             func() time.Time
}

// NewCheatReportArchiver retention 为 0 时不清理
func NewCheatReportArchiver(exporterFactory *factory.ExporterFactory, storage minio.ObjectStorage, log loggerv2.Logger, bucket string, format factory.ExporterType, retention time.Duration) *CheatReportArchiver {
	return &CheatReportArchiver{
		exporterFactory: exporterFactory,
		storage:         storage,
		log:             log,
		bucket:          bucket,
		format:          format,
		retention:       retention,
		now:             time.Now,
	}
}

// RunArchive 运行归档任务
func (a *CheatReportArchiver) RunArchive(ctx context.Context) error {
	exp := a.exporterFactory.GetExporter(a.format)
	if exp == nil {
		return fmt.Errorf("RunArchive failed: unknown export format %q", a.format)
	}

	var buf bytes.Buffer
	if err := exp.Export(ctx, nil, &buf); err != nil {
		return fmt.Errorf("RunArchive failed at export: %w", err)
	}

	now := a.now()
	key := objectPrefix + now.Format("20060102150405") + factory.ExporterSuffixMap[a.format]
	size := int64(buf.Len())
	if err := a.storage.PutObject(ctx, a.bucket, key, &buf, size, factory.ExporterContentTypeMap[a.format]); err != nil {
		return fmt.Errorf("RunArchive failed at upload: %w", err)
	}
	a.log.InfoContext(ctx, "Cheat report archived",
		logger.String("bucket", a.bucket),
		logger.String("key", key),
		logger.Int64("size", size))

	if a.retention <= 0 {
		return nil
	}
	return a.prune(ctx, now.Add(-a.retention))
}

// prune 删除早于 deadline 的归档
func (a *CheatReportArchiver) prune(ctx context.Context, deadline time.Time) error {
	objects, err := a.storage.ListObjectsWithPrefix(ctx, a.bucket, objectPrefix)
	if err != nil {
		return fmt.Errorf("prune failed at list: %w", err)
	}

	var expired []string
	for _, obj := range objects {
		if obj.LastModified.Before(deadline) {
			expired = append(expired, obj.Key)
		}
	}
	if len(expired) == 0 {
		return nil
	}
	if err = a.storage.DeleteObjects(ctx, a.bucket, expired); err != nil {
		return fmt.Errorf("prune failed at delete: %w", err)
	}
	a.log.InfoContext(ctx, "Expired cheat reports pruned", logger.Int("count", len(expired)))
	return nil
}
