package event

import (
	"context"
	"errors"
	"sync"

	"github.com/IBM/sarama"
	"github.com/to404hanga/ctf_checker/checker"
	"github.com/to404hanga/pkg404/logger"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

// SubmissionConsumer 消费提交创建事件并放入判定队列.
// 入队不会阻塞, 所以消息在入队后立即确认; 进程崩溃时未判定的提交由恢复扫描兜底.
type SubmissionConsumer struct {
	group    sarama.ConsumerGroup
	enqueuer checker.Enqueuer
	topics   []string
	log      loggerv2.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ sarama.ConsumerGroupHandler = (*SubmissionConsumer)(nil)

func NewSubmissionConsumer(group sarama.ConsumerGroup, enqueuer checker.Enqueuer, topic string, log loggerv2.Logger) *SubmissionConsumer {
	if topic == "" {
		topic = SubmissionTopic
	}
	return &SubmissionConsumer{
		group:    group,
		enqueuer: enqueuer,
		topics:   []string{topic},
		log:      log,
	}
}

// Start 在后台持续消费, 直到 Close
func (c *SubmissionConsumer) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		for {
			// 每次 rebalance 后 Consume 返回, 需要重新加入
			err := c.group.Consume(ctx, c.topics, c)
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			if err != nil {
				c.log.ErrorContext(ctx, "Consume submission topic failed", logger.Error(err))
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
	go func() {
		defer c.wg.Done()
		for err := range c.group.Errors() {
			c.log.WarnContext(ctx, "Submission consumer group error", logger.Error(err))
		}
	}()

	c.log.InfoContext(ctx, "Submission consumer started", logger.Any("topics", c.topics))
}

func (c *SubmissionConsumer) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	err := c.group.Close()
	c.wg.Wait()
	return err
}

func (c *SubmissionConsumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (c *SubmissionConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (c *SubmissionConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := session.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			c.handle(ctx, msg)
			session.MarkMessage(msg, "")
		}
	}
}

func (c *SubmissionConsumer) handle(ctx context.Context, msg *sarama.ConsumerMessage) {
	var sm SubmissionMessage
	if err := sm.Unmarshal(msg.Value); err != nil {
		// 格式错误的消息重试也无法成功, 记录后跳过
		c.log.WarnContext(ctx, "Drop malformed submission message",
			logger.String("topic", msg.Topic),
			logger.Int("partition", int(msg.Partition)),
			logger.Int64("offset", msg.Offset),
			logger.Error(err))
		return
	}
	c.enqueuer.Enqueue(sm.SubmissionID)
	c.log.DebugContext(ctx, "Submission enqueued from kafka", logger.Uint64("submission_id", sm.SubmissionID))
}
