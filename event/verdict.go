package event

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/to404hanga/ctf_checker/checker"
	"github.com/to404hanga/ctf_checker/model"
)

// VerdictPublisher 把判定结果写入 kafka, 以提交 id 作为分区 key
type VerdictPublisher struct {
	producer Producer
	topic    string
	now      func() time.Time
}

var _ checker.VerdictPublisher = (*VerdictPublisher)(nil)

func NewVerdictPublisher(producer Producer, topic string) *VerdictPublisher {
	if topic == "" {
		topic = VerdictTopic
	}
	return &VerdictPublisher{
		producer: producer,
		topic:    topic,
		now:      time.Now,
	}
}

func (p *VerdictPublisher) PublishVerdict(ctx context.Context, submission *model.Submission, status model.SubmissionStatus) error {
	msg := VerdictMessage{
		SubmissionID: submission.ID,
		UserID:       submission.UserID,
		TeamID:       submission.TeamID,
		ChallengeID:  submission.ChallengeID,
		GameID:       submission.GameID,
		Status:       status,
		StatusName:   status.String(),
		CheckedAt:    p.now().UnixMilli(),
	}
	val, err := msg.Marshal()
	if err != nil {
		return fmt.Errorf("PublishVerdict failed at marshal message: %w", err)
	}

	_, _, err = p.producer.Produce(ctx, &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(submission.ID, 10)),
		Value: sarama.ByteEncoder(val),
	})
	if err != nil {
		return fmt.Errorf("PublishVerdict failed at produce message: %w", err)
	}
	return nil
}
