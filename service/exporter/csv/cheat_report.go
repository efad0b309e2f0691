package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/to404hanga/ctf_checker/model"
	"github.com/to404hanga/ctf_checker/service"
	"github.com/to404hanga/ctf_checker/service/exporter"
	"github.com/to404hanga/ctf_checker/service/exporter/common"
	"github.com/to404hanga/pkg404/logger"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

type StreamableCSVCheatReportExporter struct {
	submissionSvc service.SubmissionService
	log           loggerv2.Logger
	batchSize     int
}

var _ exporter.CheatReportExporter = (*StreamableCSVCheatReportExporter)(nil)

func NewStreamableCSVCheatReportExporter(submissionSvc service.SubmissionService, log loggerv2.Logger, batchSize int) *StreamableCSVCheatReportExporter {
	return &StreamableCSVCheatReportExporter{
		submissionSvc: submissionSvc,
		log:           log,
		batchSize:     batchSize,
	}
}

func (e *StreamableCSVCheatReportExporter) Export(ctx context.Context, gameID *uint64, writer io.Writer) error {
	ectx, cancel := context.WithCancel(ctx)
	defer cancel()

	recordCh, errCh := common.StreamCheatRecords(ectx, e.submissionSvc, gameID, e.batchSize)

	csvWriter := csv.NewWriter(writer)
	defer csvWriter.Flush()

	if err := csvWriter.Write(common.CheatReportHeaders); err != nil {
		return fmt.Errorf("write header failed: %w", err)
	}

	total := 0
	for records := range recordCh {
		if err := e.processRecords(csvWriter, records); err != nil {
			return fmt.Errorf("process records failed: %w", err)
		}
		total += len(records)
	}
	if err := <-errCh; err != nil {
		return fmt.Errorf("sub goroutine fetch cheat records failed: %w", err)
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("flush csv failed: %w", err)
	}
	e.log.DebugContext(ctx, "Cheat report exported", logger.String("format", "csv"), logger.Int("rows", total))
	return nil
}

func (e *StreamableCSVCheatReportExporter) processRecords(csvWriter *csv.Writer, records []model.CheatRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, common.CheatRecordRow(r))
	}
	return csvWriter.WriteAll(rows)
}
