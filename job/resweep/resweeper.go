package resweep

import (
	"context"
	"fmt"
	"time"

	"github.com/to404hanga/ctf_checker/checker"
	"github.com/to404hanga/ctf_checker/service"
	"github.com/to404hanga/pkg404/logger"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

const JobName = "resweep"

// Resweeper 把长时间停留在待判定状态的提交重新入队.
// worker 处理失败的提交保持待判定, 由这里在运行期间重试, 不必等待重启后的恢复扫描.
type Resweeper struct {
	submissionSvc service.SubmissionService
	enqueuer      checker.Enqueuer
	log           loggerv2.Logger
	staleAfter    time.Duration
	now           func() time.Time
}

// NewResweeper 创建新的待判定提交重扫器
func NewResweeper(submissionSvc service.SubmissionService, enqueuer checker.Enqueuer, log loggerv2.Logger, staleAfter time.Duration) *Resweeper {
	return &Resweeper{
		submissionSvc: submissionSvc,
		enqueuer:      enqueuer,
		log:           log,
		staleAfter:    staleAfter,
		now:           time.Now,
	}
}

// RunResweep 运行重扫任务
func (r *Resweeper) RunResweep(ctx context.Context) error {
	deadline := r.now().Add(-r.staleAfter)
	ids, err := r.submissionSvc.FindPendingSubmissionIDs(ctx, deadline)
	if err != nil {
		return fmt.Errorf("RunResweep failed: %w", err)
	}

	for _, id := range ids {
		r.enqueuer.Enqueue(id)
	}

	if len(ids) > 0 {
		r.log.InfoContext(ctx, "Stale pending submissions re-enqueued",
			logger.Int("count", len(ids)),
			logger.Any("created_before", deadline))
	}
	return nil
}
