package checker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/to404hanga/ctf_checker/model"
	"github.com/to404hanga/ctf_checker/pkg/lease"
	"github.com/to404hanga/ctf_checker/service"
	"github.com/to404hanga/pkg404/gotools/retry"
	"github.com/to404hanga/pkg404/logger"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

const (
	defaultRetryTimes    = 3
	defaultRetryInterval = 100 * time.Millisecond
)

// VerdictPublisher 判定结果写入后的通知出口
type VerdictPublisher interface {
	PublishVerdict(ctx context.Context, submission *model.Submission, status model.SubmissionStatus) error
}

type nopVerdictPublisher struct{}

func (nopVerdictPublisher) PublishVerdict(context.Context, *model.Submission, model.SubmissionStatus) error {
	return nil
}

// Status Checker 运行状态
type Status struct {
	Ready      bool
	QueueDepth int
}

// Checker 提交判定器.
// 每个 Checker 只有一个消费 goroutine, 所有判定串行执行;
// 去重检查依赖这一点, 因此不提供启动第二个 worker 的途径.
type Checker struct {
	queue         *Queue
	submissionSvc service.SubmissionService
	challengeSvc  service.ChallengeService
	podSvc        service.PodService
	userSvc       service.UserService
	publisher     VerdictPublisher
	lease         lease.Lease
	log           loggerv2.Logger
	now           func() time.Time
	retryOpts     []retry.Option

	startOnce sync.Once
	startErr  error
	stopOnce  sync.Once
	stopErr   error
	mu        sync.Mutex
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	ready     atomic.Bool
	readyCh   chan struct{}
}

var _ Enqueuer = (*Checker)(nil)

func NewChecker(
	queue *Queue,
	submissionSvc service.SubmissionService,
	challengeSvc service.ChallengeService,
	podSvc service.PodService,
	userSvc service.UserService,
	publisher VerdictPublisher,
	l lease.Lease,
	log loggerv2.Logger,
) *Checker {
	if publisher == nil {
		publisher = nopVerdictPublisher{}
	}
	if l == nil {
		l = lease.NopLease{}
	}
	return &Checker{
		queue:         queue,
		submissionSvc: submissionSvc,
		challengeSvc:  challengeSvc,
		podSvc:        podSvc,
		userSvc:       userSvc,
		publisher:     publisher,
		lease:         l,
		log:           log,
		now:           time.Now,
		retryOpts:     retryOptions(defaultRetryTimes, defaultRetryInterval),
		readyCh:       make(chan struct{}),
	}
}

// SetRetry 设置单次读写的重试次数和首次重试间隔, 需在 Start 之前调用
func (c *Checker) SetRetry(times int, baseInterval time.Duration) {
	c.retryOpts = retryOptions(times, baseInterval)
}

func retryOptions(times int, baseInterval time.Duration) []retry.Option {
	return []retry.Option{
		retry.WithRetryTimes(times),
		retry.WithBaseInterval(baseInterval),
	}
}

// Enqueue 提交 id 入队, 不阻塞
func (c *Checker) Enqueue(submissionID uint64) {
	c.queue.Enqueue(submissionID)
}

// Start 获取租约, 启动唯一的 worker, 再把所有待判定提交重新入队, 最后标记就绪.
// 重复调用直接返回第一次的结果.
func (c *Checker) Start(ctx context.Context) error {
	c.startOnce.Do(func() {
		c.startErr = c.start(ctx)
	})
	return c.startErr
}

func (c *Checker) start(ctx context.Context) error {
	if err := c.lease.Acquire(ctx); err != nil {
		return fmt.Errorf("Start failed at acquire lease: %w", err)
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(workerCtx)
	go c.watchLease(workerCtx)

	if err := c.recoverPending(ctx); err != nil {
		return fmt.Errorf("Start failed at recover: %w", err)
	}

	c.ready.Store(true)
	close(c.readyCh)
	c.log.InfoContext(ctx, "Checker initialized successfully")
	return nil
}

// Stop 停止 worker 并等待正在处理的提交完成, 未处理的提交保持待判定状态
func (c *Checker) Stop(ctx context.Context) error {
	c.stopOnce.Do(func() {
		c.ready.Store(false)

		c.mu.Lock()
		cancel := c.cancel
		c.mu.Unlock()
		if cancel != nil {
			cancel()
		}

		done := make(chan struct{})
		go func() {
			c.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			c.stopErr = fmt.Errorf("Stop failed at wait worker: %w", ctx.Err())
		}

		if err := c.lease.Release(ctx); err != nil {
			c.log.WarnContext(ctx, "Release lease failed", logger.Error(err))
		}
		c.log.InfoContext(ctx, "Checker stopped", logger.Int("queue_depth", c.queue.Len()))
	})
	return c.stopErr
}

// Ready 恢复扫描完成后关闭
func (c *Checker) Ready() <-chan struct{} {
	return c.readyCh
}

func (c *Checker) IsReady() bool {
	return c.ready.Load()
}

func (c *Checker) Status() Status {
	return Status{
		Ready:      c.ready.Load(),
		QueueDepth: c.queue.Len(),
	}
}

func (c *Checker) run(ctx context.Context) {
	defer c.wg.Done()
	for {
		id, err := c.queue.dequeue(ctx)
		if err != nil {
			c.log.Info("Checker worker exited", logger.Error(err))
			return
		}
		queueDepth.Set(float64(c.queue.Len()))
		// 单个提交的处理不受停止信号打断, Stop 会等待它完成
		c.process(context.WithoutCancel(ctx), id)
	}
}

func (c *Checker) watchLease(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-c.lease.Lost():
		c.log.Error("Checker lease lost, stopping worker")
		c.ready.Store(false)
		c.mu.Lock()
		cancel := c.cancel
		c.mu.Unlock()
		cancel()
	}
}

// process 处理单个提交, 任何错误和 panic 都只影响当前提交
func (c *Checker) process(ctx context.Context, submissionID uint64) {
	ctx = loggerv2.ContextWithFields(ctx, logger.Uint64("submission_id", submissionID))
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			failuresTotal.WithLabelValues("panic").Inc()
			c.log.ErrorContext(ctx, "Check panicked, submission stays pending", logger.Any("panic", r))
		}
		checkDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	if err := c.check(ctx, submissionID); err != nil {
		c.log.ErrorContext(ctx, "Check failed, submission stays pending", logger.Error(err))
	}
}

func (c *Checker) check(ctx context.Context, submissionID uint64) error {
	var submission *model.Submission
	err := c.withRetry(ctx, func() (err error) {
		submission, err = c.submissionSvc.GetPendingSubmission(ctx, submissionID)
		return err
	})
	if errors.Is(err, service.ErrNotFound) {
		c.log.DebugContext(ctx, "Submission not pending, skip")
		return nil
	}
	if err != nil {
		return failed("load_submission", err)
	}

	ctx = loggerv2.ContextWithFields(ctx,
		logger.Uint64("user_id", submission.UserID),
		logger.Uint64("challenge_id", submission.ChallengeID))

	var exists bool
	err = c.withRetry(ctx, func() (err error) {
		exists, err = c.userSvc.ExistsUser(ctx, submission.UserID)
		return err
	})
	if err != nil {
		return failed("load_user", err)
	}
	if !exists {
		return c.purge(ctx, submission, "user_missing")
	}

	var challenge *model.Challenge
	err = c.withRetry(ctx, func() (err error) {
		challenge, err = c.challengeSvc.GetChallenge(ctx, submission.ChallengeID)
		return err
	})
	if errors.Is(err, service.ErrNotFound) {
		return c.purge(ctx, submission, "challenge_missing")
	}
	if err != nil {
		return failed("load_challenge", err)
	}

	var strategy Strategy
	err = c.withRetry(ctx, func() (err error) {
		strategy, err = c.strategyFor(ctx, challenge, submission)
		return err
	})
	if err != nil {
		return failed("load_pods", err)
	}

	var solved []model.Submission
	err = c.withRetry(ctx, func() (err error) {
		solved, err = c.submissionSvc.FindCorrectSubmissions(ctx, submission.ChallengeID, submission.GameID)
		return err
	})
	if err != nil {
		return failed("load_solved", err)
	}

	status := Verify(submission, strategy, solved)

	err = c.withRetry(ctx, func() error {
		return c.submissionSvc.UpdateSubmissionStatus(ctx, submission.ID, status)
	})
	if errors.Is(err, service.ErrNotFound) {
		c.log.WarnContext(ctx, "Submission changed before verdict was written, skip",
			logger.String("status", status.String()))
		return nil
	}
	if err != nil {
		return failed("write_status", err)
	}

	verdictsTotal.WithLabelValues(status.String(), strategy.Name()).Inc()
	c.log.InfoContext(ctx, "Submission checked",
		logger.String("status", status.String()),
		logger.String("strategy", strategy.Name()),
		logger.Any("team_id", submission.TeamID),
		logger.Any("game_id", submission.GameID))

	if err = c.publisher.PublishVerdict(ctx, submission, status); err != nil {
		c.log.WarnContext(ctx, "PublishVerdict failed", logger.Error(err))
	}
	return nil
}

// withRetry 重试临时错误. ErrNotFound 是确定的结果, 不重试并原样返回
func (c *Checker) withRetry(ctx context.Context, fn func() error) error {
	var notFound error
	err := retry.Do(ctx, func() error {
		notFound = nil
		err := fn()
		if errors.Is(err, service.ErrNotFound) {
			notFound = err
			return nil
		}
		return err
	}, c.retryOpts...)
	if notFound != nil {
		return notFound
	}
	return err
}

// strategyFor 根据题目类型构造判定策略, 动态题目需要读取当前有效的 pod
func (c *Checker) strategyFor(ctx context.Context, challenge *model.Challenge, submission *model.Submission) (Strategy, error) {
	if !challenge.IsDynamic {
		return StaticChallenge{Flags: challenge.Flags}, nil
	}

	now := c.now()
	pods, err := c.podSvc.FindLivePods(ctx, challenge.ID, submission.GameID, now)
	if err != nil {
		return nil, err
	}
	return DynamicChallenge{Pods: pods, Now: now}, nil
}

// purge 用户或题目已删除, 提交直接删除且不写入任何状态
func (c *Checker) purge(ctx context.Context, submission *model.Submission, reason string) error {
	if err := c.submissionSvc.DeleteSubmission(ctx, submission.ID); err != nil {
		return failed("purge", err)
	}
	orphansTotal.WithLabelValues(reason).Inc()
	c.log.InfoContext(ctx, "Orphan submission purged", logger.String("reason", reason))
	return nil
}

// recoverPending 按创建时间顺序把所有待判定提交重新入队
func (c *Checker) recoverPending(ctx context.Context) error {
	ids, err := c.submissionSvc.FindPendingSubmissionIDs(ctx, time.Time{})
	if err != nil {
		return err
	}
	for _, id := range ids {
		c.queue.Enqueue(id)
	}
	queueDepth.Set(float64(c.queue.Len()))
	c.log.InfoContext(ctx, "Pending submissions recovered", logger.Int("count", len(ids)))
	return nil
}

func failed(stage string, err error) error {
	failuresTotal.WithLabelValues(stage).Inc()
	return fmt.Errorf("check failed at %s: %w", stage, err)
}
