package checker

import (
	"context"
	"sync"

	"github.com/eapache/queue"
)

// Enqueuer 提交入队接口, 供提交创建方、消息消费者和定时任务使用
type Enqueuer interface {
	Enqueue(submissionID uint64)
}

// Queue 无界多生产者单消费者队列.
// Enqueue 永不阻塞, 出队方法不导出, 只有 Checker 内部的唯一 worker 可以消费.
type Queue struct {
	mu     sync.Mutex
	items  *queue.Queue
	notify chan struct{}
}

var _ Enqueuer = (*Queue)(nil)

func NewQueue() *Queue {
	return &Queue{
		items:  queue.New(),
		notify: make(chan struct{}, 1),
	}
}

// Enqueue 提交 id 入队
func (q *Queue) Enqueue(submissionID uint64) {
	q.mu.Lock()
	q.items.Add(submissionID)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Len 当前队列长度
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}

// dequeue 阻塞直到有元素或 ctx 结束
func (q *Queue) dequeue(ctx context.Context) (uint64, error) {
	for {
		q.mu.Lock()
		if q.items.Length() > 0 {
			id := q.items.Remove().(uint64)
			q.mu.Unlock()
			return id, nil
		}
		q.mu.Unlock()

		select {
		case <-q.notify:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}
