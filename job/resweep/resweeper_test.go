package resweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/to404hanga/ctf_checker/service"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
	"go.uber.org/zap"
)

type stubSubmissionService struct {
	service.SubmissionService
	ids    []uint64
	err    error
	before time.Time
}

func (s *stubSubmissionService) FindPendingSubmissionIDs(_ context.Context, createdBefore time.Time) ([]uint64, error) {
	s.before = createdBefore
	return s.ids, s.err
}

type sliceEnqueuer []uint64

func (e *sliceEnqueuer) Enqueue(id uint64) { *e = append(*e, id) }

func TestResweeper_RunResweep(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	svc := &stubSubmissionService{ids: []uint64{5, 3, 9}}
	var enq sliceEnqueuer

	r := NewResweeper(svc, &enq, loggerv2.NewZapContextLogger(zap.NewNop()), 2*time.Minute)
	r.now = func() time.Time { return now }

	require.NoError(t, r.RunResweep(context.Background()))
	assert.Equal(t, now.Add(-2*time.Minute), svc.before)
	assert.Equal(t, sliceEnqueuer{5, 3, 9}, enq)
}

func TestResweeper_QueryFailed(t *testing.T) {
	svc := &stubSubmissionService{err: errors.New("connection reset")}
	var enq sliceEnqueuer

	r := NewResweeper(svc, &enq, loggerv2.NewZapContextLogger(zap.NewNop()), time.Minute)
	err := r.RunResweep(context.Background())
	assert.ErrorContains(t, err, "connection reset")
	assert.Empty(t, enq)
}
