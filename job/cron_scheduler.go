package job

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/to404hanga/pkg404/logger"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

const defaultJobTimeout = 10 * time.Minute

// cronParser 支持秒级精度, 也接受 @every 这类描述符
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobRunning  = errors.New("job is running")
)

// JobFunc 定义任务执行函数类型
type JobFunc func(ctx context.Context) error

// JobConfig 任务配置
type JobConfig struct {
	Name        string        // 任务名称
	CronExpr    string        // cron表达式
	JobFunc     JobFunc       // 任务执行函数
	Description string        // 任务描述
	Enabled     bool          // 是否按 cron 表达式自动执行
	Timeout     time.Duration // 单次执行超时, 零值为 10 分钟
}

// JobStatus 任务状态快照
type JobStatus struct {
	Name           string     `json:"name"`
	CronExpr       string     `json:"cron_expr"`
	Description    string     `json:"description"`
	Enabled        bool       `json:"enabled"`
	Running        bool       `json:"running"`
	LastRun        *time.Time `json:"last_run,omitempty"`
	LastTrigger    string     `json:"last_trigger,omitempty"`
	NextRun        *time.Time `json:"next_run,omitempty"`
	LastDurationMs int64      `json:"last_duration_ms"`
	LastError      string     `json:"last_error,omitempty"`
	RunCount       int64      `json:"run_count"`
	ErrorCount     int64      `json:"error_count"`
}

type scheduledJob struct {
	cfg     *JobConfig
	status  JobStatus
	entryID cron.EntryID // 0 表示当前不在 cron 中
}

// CronScheduler 维护任务的定时调度.
// 同一任务同时最多执行一次, 定时触发和手动触发共用同一执行路径.
type CronScheduler struct {
	cron    *cron.Cron
	jobs    map[string]*scheduledJob
	started bool
	log     loggerv2.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
}

func NewCronScheduler(log loggerv2.Logger) *CronScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &CronScheduler{
		cron:   cron.New(cron.WithParser(cronParser)),
		jobs:   make(map[string]*scheduledJob),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob 注册任务, 调度器已启动时启用的任务立即进入调度
func (s *CronScheduler) AddJob(cfg *JobConfig) error {
	switch {
	case cfg.Name == "":
		return fmt.Errorf("AddJob failed: job name cannot be empty")
	case cfg.CronExpr == "":
		return fmt.Errorf("AddJob failed: cron expression cannot be empty")
	case cfg.JobFunc == nil:
		return fmt.Errorf("AddJob failed: job function cannot be nil")
	}
	if _, err := cronParser.Parse(cfg.CronExpr); err != nil {
		return fmt.Errorf("AddJob failed: invalid cron expression: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultJobTimeout
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[cfg.Name]; exists {
		return fmt.Errorf("AddJob failed: job %s already exists", cfg.Name)
	}
	j := &scheduledJob{
		cfg: cfg,
		status: JobStatus{
			Name:        cfg.Name,
			CronExpr:    cfg.CronExpr,
			Description: cfg.Description,
			Enabled:     cfg.Enabled,
		},
	}
	s.jobs[cfg.Name] = j
	if s.started && cfg.Enabled {
		if err := s.schedule(j); err != nil {
			delete(s.jobs, cfg.Name)
			return fmt.Errorf("AddJob failed: %w", err)
		}
	}

	s.log.InfoContext(s.ctx, "Job added",
		logger.String("name", cfg.Name),
		logger.String("cronExpr", cfg.CronExpr),
		logger.Bool("enabled", cfg.Enabled),
	)
	return nil
}

// EnableJob 启用任务的定时执行
func (s *CronScheduler) EnableJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, err := s.lookup(name)
	if err != nil {
		return err
	}
	j.cfg.Enabled = true
	j.status.Enabled = true
	if s.started && j.entryID == 0 {
		if err = s.schedule(j); err != nil {
			return fmt.Errorf("EnableJob failed: %w", err)
		}
	}

	s.log.InfoContext(s.ctx, "Job enabled", logger.String("name", name))
	return nil
}

// DisableJob 停止任务的定时执行, 正在执行的那一次不受影响, 仍可手动触发
func (s *CronScheduler) DisableJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, err := s.lookup(name)
	if err != nil {
		return err
	}
	j.cfg.Enabled = false
	j.status.Enabled = false
	s.unschedule(j)

	s.log.InfoContext(s.ctx, "Job disabled", logger.String("name", name))
	return nil
}

// Start 把所有启用的任务加入 cron 并开始调度, 重复调用无效果
func (s *CronScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	for _, j := range s.jobs {
		if !j.cfg.Enabled {
			continue
		}
		if err := s.schedule(j); err != nil {
			s.log.ErrorContext(s.ctx, "Failed to add job to cron",
				logger.String("name", j.cfg.Name),
				logger.Error(err),
			)
		}
	}
	s.started = true
	s.cron.Start()

	s.log.InfoContext(s.ctx, "Cron scheduler started", logger.Int("jobs", len(s.cron.Entries())))
	return nil
}

// Stop 停止调度器, 等待正在执行的定时任务结束
func (s *CronScheduler) Stop() {
	s.mu.Lock()
	stopCtx := s.cron.Stop()
	s.started = false
	s.cancel()
	s.mu.Unlock()

	// 任务结束时需要获取锁更新状态, 等待前先释放锁
	<-stopCtx.Done()
	s.log.Info("Cron scheduler stopped")
}

// TriggerJob 手动触发一次任务并立即返回, 任务正在执行时返回 ErrJobRunning
func (s *CronScheduler) TriggerJob(name string) error {
	j, start, err := s.begin(name, "manual")
	if err != nil {
		return err
	}
	go s.execute(j, start)
	return nil
}

// GetJobStatuses 按名称排序返回所有任务状态
func (s *CronScheduler) GetJobStatuses() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]JobStatus, 0, len(s.jobs))
	for _, j := range s.jobs {
		result = append(result, s.snapshot(j))
	}
	sort.Slice(result, func(i, k int) bool { return result[i].Name < result[k].Name })
	return result
}

func (s *CronScheduler) GetJobStatus(name string) (JobStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, err := s.lookup(name)
	if err != nil {
		return JobStatus{}, err
	}
	return s.snapshot(j), nil
}

// schedule 调用方需持有锁
func (s *CronScheduler) schedule(j *scheduledJob) error {
	name := j.cfg.Name
	id, err := s.cron.AddFunc(j.cfg.CronExpr, func() {
		sj, start, err := s.begin(name, "cron")
		if errors.Is(err, ErrJobRunning) {
			s.log.WarnContext(s.ctx, "Job still running, skip this tick", logger.String("name", name))
			return
		}
		if err != nil {
			return
		}
		s.execute(sj, start)
	})
	if err != nil {
		return err
	}
	j.entryID = id
	return nil
}

// unschedule 调用方需持有锁
func (s *CronScheduler) unschedule(j *scheduledJob) {
	if j.entryID == 0 {
		return
	}
	s.cron.Remove(j.entryID)
	j.entryID = 0
}

// lookup 调用方需持有锁
func (s *CronScheduler) lookup(name string) (*scheduledJob, error) {
	j, ok := s.jobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return j, nil
}

// snapshot 调用方需持有锁
func (s *CronScheduler) snapshot(j *scheduledJob) JobStatus {
	st := j.status
	if j.entryID != 0 {
		if next := s.cron.Entry(j.entryID).Next; !next.IsZero() {
			st.NextRun = &next
		}
	}
	return st
}

// begin 占用任务的执行权并记录本次运行
func (s *CronScheduler) begin(name, trigger string) (*scheduledJob, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, err := s.lookup(name)
	if err != nil {
		return nil, time.Time{}, err
	}
	if j.status.Running {
		return nil, time.Time{}, fmt.Errorf("%w: %s", ErrJobRunning, name)
	}
	start := time.Now()
	j.status.Running = true
	j.status.LastRun = &start
	j.status.LastTrigger = trigger
	j.status.RunCount++
	return j, start, nil
}

func (s *CronScheduler) execute(j *scheduledJob, start time.Time) {
	ctx := loggerv2.ContextWithFields(s.ctx, logger.String("job", j.cfg.Name))
	ctx, cancel := context.WithTimeout(ctx, j.cfg.Timeout)
	defer cancel()

	s.log.InfoContext(ctx, "Job started")
	err := j.cfg.JobFunc(ctx)
	duration := time.Since(start)

	s.mu.Lock()
	j.status.Running = false
	j.status.LastDurationMs = duration.Milliseconds()
	if err != nil {
		j.status.ErrorCount++
		j.status.LastError = err.Error()
	} else {
		j.status.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.log.ErrorContext(ctx, "Job failed",
			logger.Int64("duration_ms", duration.Milliseconds()),
			logger.Error(err))
		return
	}
	s.log.InfoContext(ctx, "Job completed", logger.Int64("duration_ms", duration.Milliseconds()))
}
