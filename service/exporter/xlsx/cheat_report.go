package xlsx

import (
	"context"
	"fmt"
	"io"

	"github.com/to404hanga/ctf_checker/model"
	"github.com/to404hanga/ctf_checker/service"
	"github.com/to404hanga/ctf_checker/service/exporter"
	"github.com/to404hanga/ctf_checker/service/exporter/common"
	"github.com/to404hanga/pkg404/logger"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
	"github.com/xuri/excelize/v2"
)

const SheetName = "作弊提交"

type StreamableXLSXCheatReportExporter struct {
	submissionSvc service.SubmissionService
	log           loggerv2.Logger
	batchSize     int
}

var _ exporter.CheatReportExporter = (*StreamableXLSXCheatReportExporter)(nil)

func NewStreamableXLSXCheatReportExporter(submissionSvc service.SubmissionService, log loggerv2.Logger, batchSize int) *StreamableXLSXCheatReportExporter {
	return &StreamableXLSXCheatReportExporter{
		submissionSvc: submissionSvc,
		log:           log,
		batchSize:     batchSize,
	}
}

func (e *StreamableXLSXCheatReportExporter) Export(ctx context.Context, gameID *uint64, writer io.Writer) error {
	ectx, cancel := context.WithCancel(ctx)
	defer cancel()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.log.ErrorContext(ctx, "close excel file failed", logger.Error(err))
		}
	}()

	// 直接重命名默认工作表, 避免留下空白的 Sheet1
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet failed: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("create stream writer failed: %w", err)
	}
	if err = e.writeHeader(f, sw); err != nil {
		return fmt.Errorf("write header failed: %w", err)
	}

	recordCh, errCh := common.StreamCheatRecords(ectx, e.submissionSvc, gameID, e.batchSize)

	currentRow := 2 // 第一行是表头
	for records := range recordCh {
		if err = e.processRecords(sw, records, &currentRow); err != nil {
			return fmt.Errorf("process records failed: %w", err)
		}
	}
	if err = <-errCh; err != nil {
		return fmt.Errorf("sub goroutine fetch cheat records failed: %w", err)
	}

	if err = sw.Flush(); err != nil {
		return fmt.Errorf("flush stream writer failed: %w", err)
	}
	if err = f.Write(writer); err != nil {
		return fmt.Errorf("write excel file failed: %w", err)
	}
	e.log.DebugContext(ctx, "Cheat report exported", logger.String("format", "xlsx"), logger.Int("rows", currentRow-2))
	return nil
}

func (e *StreamableXLSXCheatReportExporter) processRecords(sw *excelize.StreamWriter, records []model.CheatRecord, currentRow *int) error {
	for _, r := range records {
		row := common.CheatRecordRow(r)
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, *currentRow)
		if err != nil {
			return fmt.Errorf("get cell name failed: %w", err)
		}
		if err = sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("set row failed: %w", err)
		}
		*currentRow++
	}
	return nil
}

// writeHeader 写入表头和列宽, 流式写入要求列宽在第一行之前设置
func (e *StreamableXLSXCheatReportExporter) writeHeader(f *excelize.File, sw *excelize.StreamWriter) error {
	columnWidths := []float64{12, 12, 20, 12, 12, 12, 40, 22}
	for i, width := range columnWidths {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return fmt.Errorf("set column width failed: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E0E0E0"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("create header style failed: %w", err)
	}

	cells := make([]any, 0, len(common.CheatReportHeaders))
	for _, header := range common.CheatReportHeaders {
		cells = append(cells, excelize.Cell{StyleID: headerStyle, Value: header})
	}
	return sw.SetRow("A1", cells)
}
