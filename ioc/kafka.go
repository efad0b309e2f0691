package ioc

import (
	"log"

	"github.com/IBM/sarama"
	"github.com/to404hanga/ctf_checker/checker"
	"github.com/to404hanga/ctf_checker/config"
	"github.com/to404hanga/ctf_checker/event"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

func loadKafkaConfig() config.KafkaConfig {
	var cfg config.KafkaConfig
	UnmarshalConfig(&cfg)
	return cfg
}

// InitKafkaProducer 未启用时返回 NopProducer, 判定结果不会外发
func InitKafkaProducer() event.Producer {
	cfg := loadKafkaConfig()
	if !cfg.ProducerEnabled {
		return event.NopProducer{}
	}

	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		log.Panicf("create kafka producer failed: %v", err)
	}
	return event.NewSaramaProducer(producer)
}

func InitVerdictPublisher(producer event.Producer) checker.VerdictPublisher {
	cfg := loadKafkaConfig()
	return event.NewVerdictPublisher(producer, cfg.VerdictTopic)
}

// InitSubmissionConsumer 未启用时返回 nil, 提交只能通过 HTTP 入队
func InitSubmissionConsumer(enqueuer checker.Enqueuer, l loggerv2.Logger) *event.SubmissionConsumer {
	cfg := loadKafkaConfig()
	if !cfg.ConsumerEnabled {
		return nil
	}

	saramaCfg := sarama.NewConfig()
	saramaCfg.Consumer.Return.Errors = true
	saramaCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaCfg)
	if err != nil {
		log.Panicf("create kafka consumer group failed: %v", err)
	}
	return event.NewSubmissionConsumer(group, enqueuer, cfg.SubmissionTopic, l)
}
