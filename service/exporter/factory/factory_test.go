package factory

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/to404hanga/ctf_checker/model"
	"github.com/to404hanga/ctf_checker/service"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type stubSubmissionService struct {
	service.SubmissionService
	records []model.CheatRecord
	gameID  *uint64
}

func (s *stubSubmissionService) FindCheatSubmissions(_ context.Context, gameID *uint64, page, _ int) ([]model.CheatRecord, error) {
	s.gameID = gameID
	if page > 1 {
		return nil, nil
	}
	return s.records, nil
}

func newStub() *stubSubmissionService {
	return &stubSubmissionService{records: []model.CheatRecord{
		{SubmissionID: 11, UserID: 2, Username: "alice", ChallengeID: 3, Flag: "FLAG{leak}"},
		{SubmissionID: 12, UserID: 4, Username: "bob", ChallengeID: 3, Flag: "FLAG{leak}"},
	}}
}

func TestParseExporterType(t *testing.T) {
	assert.Equal(t, CSVExporter, ParseExporterType("csv"))
	assert.Equal(t, XLSXExporter, ParseExporterType("xlsx"))
	assert.Equal(t, UnknownExporter, ParseExporterType("pdf"))
}

func TestExporterFactory_GetExporter(t *testing.T) {
	f := NewExporterFactory(newStub(), loggerv2.NewZapContextLogger(zap.NewNop()), 100)

	exp := f.GetExporter(CSVExporter)
	require.NotNil(t, exp)
	assert.Same(t, exp, f.GetExporter(CSVExporter))
	assert.NotNil(t, f.GetExporter(XLSXExporter))
	assert.Nil(t, f.GetExporter(UnknownExporter))
}

func TestCSVCheatReport(t *testing.T) {
	stub := newStub()
	f := NewExporterFactory(stub, loggerv2.NewZapContextLogger(zap.NewNop()), 100)
	gameID := uint64(9)

	var buf bytes.Buffer
	require.NoError(t, f.GetExporter(CSVExporter).Export(context.Background(), &gameID, &buf))
	assert.Equal(t, &gameID, stub.gameID)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "提交ID", rows[0][0])
	assert.Equal(t, []string{"11", "2", "alice"}, rows[1][:3])
	assert.Equal(t, "bob", rows[2][2])
}

func TestXLSXCheatReport(t *testing.T) {
	f := NewExporterFactory(newStub(), loggerv2.NewZapContextLogger(zap.NewNop()), 100)

	var buf bytes.Buffer
	require.NoError(t, f.GetExporter(XLSXExporter).Export(context.Background(), nil, &buf))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{"作弊提交"}, file.GetSheetList())
	rows, err := file.GetRows("作弊提交")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "用户名", rows[0][2])
	assert.Equal(t, "alice", rows[1][2])
	assert.Equal(t, "FLAG{leak}", rows[2][6])
}
