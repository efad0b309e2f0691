package factory

import (
	"sync"

	"github.com/to404hanga/ctf_checker/service"
	"github.com/to404hanga/ctf_checker/service/exporter"
	"github.com/to404hanga/ctf_checker/service/exporter/csv"
	"github.com/to404hanga/ctf_checker/service/exporter/xlsx"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

type ExporterType string

const (
	UnknownExporter ExporterType = ""
	CSVExporter     ExporterType = "csv"
	XLSXExporter    ExporterType = "xlsx"
)

var ExporterSuffixMap = map[ExporterType]string{
	CSVExporter:  ".csv",
	XLSXExporter: ".xlsx",
}

var ExporterContentTypeMap = map[ExporterType]string{
	CSVExporter:  "text/csv; charset=utf-8",
	XLSXExporter: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ParseExporterType 不支持的格式返回 UnknownExporter
func ParseExporterType(format string) ExporterType {
	t := ExporterType(format)
	if _, ok := ExporterSuffixMap[t]; !ok {
		return UnknownExporter
	}
	return t
}

type ExporterFactory struct {
	factory       map[ExporterType]exporter.CheatReportExporter
	submissionSvc service.SubmissionService
	log           loggerv2.Logger
	batchSize     int
	mux           sync.RWMutex
}

func NewExporterFactory(submissionSvc service.SubmissionService, log loggerv2.Logger, batchSize int) *ExporterFactory {
	return &ExporterFactory{
		factory:       make(map[ExporterType]exporter.CheatReportExporter), // 延迟创建
		submissionSvc: submissionSvc,
		log:           log,
		batchSize:     batchSize,
	}
}

func (f *ExporterFactory) GetExporter(exporterType ExporterType) exporter.CheatReportExporter {
	f.mux.RLock()
	if exp, exists := f.factory[exporterType]; exists {
		f.mux.RUnlock()
		return exp
	}
	f.mux.RUnlock()

	f.mux.Lock()
	defer f.mux.Unlock()

	// 双重检查，避免重复创建
	if exp, exists := f.factory[exporterType]; exists {
		return exp
	}

	switch exporterType {
	case CSVExporter:
		f.factory[CSVExporter] = csv.NewStreamableCSVCheatReportExporter(f.submissionSvc, f.log, f.batchSize)
		return f.factory[CSVExporter]
	case XLSXExporter:
		f.factory[XLSXExporter] = xlsx.NewStreamableXLSXCheatReportExporter(f.submissionSvc, f.log, f.batchSize)
		return f.factory[XLSXExporter]
	}

	return nil
}
