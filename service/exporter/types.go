package exporter

import (
	"context"
	"io"
)

// CheatReportExporter 导出作弊提交报表, gameID 为空时导出全部
type CheatReportExporter interface {
	Export(ctx context.Context, gameID *uint64, writer io.Writer) error
}
