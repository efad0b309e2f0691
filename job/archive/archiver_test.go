package archive

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/to404hanga/ctf_checker/model"
	"github.com/to404hanga/ctf_checker/pkg/minio"
	"github.com/to404hanga/ctf_checker/service"
	"github.com/to404hanga/ctf_checker/service/exporter/factory"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
	"go.uber.org/zap"
)

type stubSubmissionService struct {
	service.SubmissionService
}

func (stubSubmissionService) FindCheatSubmissions(_ context.Context, _ *uint64, page, _ int) ([]model.CheatRecord, error) {
	if page > 1 {
		return nil, nil
	}
	return []model.CheatRecord{{SubmissionID: 1, UserID: 2, Username: "alice", Flag: "FLAG{leak}"}}, nil
}

type memoryStorage struct {
	objects  map[string][]byte
	modified map[string]time.Time
	putErr   error
	deleted  []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}, modified: map[string]time.Time{}}
}

func (m *memoryStorage) PutObject(_ context.Context, _, key string, reader io.Reader, size int64, _ string) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return errors.New("size mismatch")
	}
	m.objects[key] = data
	return nil
}

func (m *memoryStorage) ListObjectsWithPrefix(_ context.Context, _, _ string) ([]minio.ObjectInfo, error) {
	var infos []minio.ObjectInfo
	for key, data := range m.objects {
		infos = append(infos, minio.ObjectInfo{Key: key, Size: int64(len(data)), LastModified: m.modified[key]})
	}
	return infos, nil
}

func (m *memoryStorage) DeleteObjects(_ context.Context, _ string, keys []string) error {
	for _, key := range keys {
		delete(m.objects, key)
		m.deleted = append(m.deleted, key)
	}
	return nil
}

func TestCheatReportArchiver_RunArchive(t *testing.T) {
	now := time.Date(2026, 10, 15, 3, 0, 0, 0, time.UTC)
	storage := newMemoryStorage()
	storage.objects["cheat_report/old.csv"] = []byte("old")
	storage.modified["cheat_report/old.csv"] = now.Add(-40 * 24 * time.Hour)
	storage.objects["cheat_report/recent.csv"] = []byte("recent")
	storage.modified["cheat_report/recent.csv"] = now.Add(-24 * time.Hour)

	log := loggerv2.NewZapContextLogger(zap.NewNop())
	a := NewCheatReportArchiver(factory.NewExporterFactory(stubSubmissionService{}, log, 100), storage, log,
		"reports", factory.CSVExporter, 30*24*time.Hour)
	a.now = func() time.Time { return now }
	// 新上传的对象使用当前时间
	storage.modified["cheat_report/20261015030000.csv"] = now

	require.NoError(t, a.RunArchive(context.Background()))

	data, ok := storage.objects["cheat_report/20261015030000.csv"]
	require.True(t, ok)
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.Equal(t, []string{"cheat_report/old.csv"}, storage.deleted)
	assert.Contains(t, storage.objects, "cheat_report/recent.csv")
}

func TestCheatReportArchiver_UploadFailed(t *testing.T) {
	storage := newMemoryStorage()
	storage.putErr = errors.New("access denied")
	log := loggerv2.NewZapContextLogger(zap.NewNop())

	a := NewCheatReportArchiver(factory.NewExporterFactory(stubSubmissionService{}, log, 100), storage, log,
		"reports", factory.XLSXExporter, 0)
	err := a.RunArchive(context.Background())
	assert.ErrorContains(t, err, "access denied")
	assert.Empty(t, storage.deleted)
}

func TestCheatReportArchiver_UnknownFormat(t *testing.T) {
	log := loggerv2.NewZapContextLogger(zap.NewNop())
	a := NewCheatReportArchiver(factory.NewExporterFactory(stubSubmissionService{}, log, 100), newMemoryStorage(), log,
		"reports", factory.UnknownExporter, 0)
	assert.Error(t, a.RunArchive(context.Background()))
}
