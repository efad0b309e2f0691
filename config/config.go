package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Keyer 配置段在 yaml 中的 key
type Keyer interface {
	Key() string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate 校验配置段的 validate 标签
func Validate(cfg Keyer) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid %s config: %w", cfg.Key(), err)
	}
	return nil
}

// LoggerConfig filePath 非空时同时输出到控制台和文件
type LoggerConfig struct {
	Development bool   `yaml:"development" mapstructure:"development"`
	FilePath    string `yaml:"filePath" mapstructure:"filePath" validate:"omitempty,filepath"`
}

func (LoggerConfig) Key() string {
	return "logger"
}

type DBConfig struct {
	DSN             string `yaml:"dsn" mapstructure:"dsn" validate:"required"`
	MaxOpenConns    int    `yaml:"maxOpenConns" mapstructure:"maxOpenConns" validate:"gte=0"`
	MaxIdleConns    int    `yaml:"maxIdleConns" mapstructure:"maxIdleConns" validate:"gte=0"`
	ConnMaxLifetime int    `yaml:"connMaxLifetime" mapstructure:"connMaxLifetime" validate:"gte=0"` // 单位: 秒
	AutoMigrate     bool   `yaml:"autoMigrate" mapstructure:"autoMigrate"`
}

func (DBConfig) Key() string {
	return "db"
}

// RedisConfig addr 为空时不创建客户端
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db" validate:"gte=0"`
}

func (RedisConfig) Key() string {
	return "redis"
}

type KafkaConfig struct {
	Brokers         []string `yaml:"brokers" mapstructure:"brokers" validate:"required_if=ConsumerEnabled true,required_if=ProducerEnabled true,dive,hostname_port"`
	GroupID         string   `yaml:"groupID" mapstructure:"groupID" validate:"required_if=ConsumerEnabled true"`
	SubmissionTopic string   `yaml:"submissionTopic" mapstructure:"submissionTopic"`
	VerdictTopic    string   `yaml:"verdictTopic" mapstructure:"verdictTopic"`
	ConsumerEnabled bool     `yaml:"consumerEnabled" mapstructure:"consumerEnabled"`
	ProducerEnabled bool     `yaml:"producerEnabled" mapstructure:"producerEnabled"`
}

func (KafkaConfig) Key() string {
	return "kafka"
}

type LeaseConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Key     string `yaml:"key" mapstructure:"key" validate:"required_if=Enabled true"`
	TTL     int    `yaml:"ttl" mapstructure:"ttl" validate:"required_if=Enabled true,omitempty,gte=1000"` // 单位: 毫秒
}

// RetryConfig 单次读写失败后的进程内重试, 零值使用默认值
type RetryConfig struct {
	Times        int `yaml:"times" mapstructure:"times" validate:"gte=0,lte=10"`
	BaseInterval int `yaml:"baseInterval" mapstructure:"baseInterval" validate:"gte=0"` // 单位: 毫秒
}

type CheckerConfig struct {
	Lease LeaseConfig `yaml:"lease" mapstructure:"lease"`
	Retry RetryConfig `yaml:"retry" mapstructure:"retry"`
}

func (CheckerConfig) Key() string {
	return "checker"
}

type BaseCronJobConfig struct {
	CronExpr string `yaml:"cronExpr" mapstructure:"cronExpr" validate:"required_if=Enabled true"`
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Timeout  int    `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"` // 单位: 毫秒
}

type ResweepConfig struct {
	BaseCronJobConfig `yaml:",inline" mapstructure:",squash"`

	StaleAfter int `yaml:"staleAfter" mapstructure:"staleAfter" validate:"gte=0"` // 单位: 秒
}

func (ResweepConfig) Key() string {
	return "resweep"
}

type ArchiveConfig struct {
	BaseCronJobConfig `yaml:",inline" mapstructure:",squash"`

	Endpoint      string `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	UseSSL        bool   `yaml:"useSSL" mapstructure:"useSSL"`
	Bucket        string `yaml:"bucket" mapstructure:"bucket" validate:"required_if=Enabled true"`
	Format        string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=csv xlsx"`
	RetentionDays int    `yaml:"retentionDays" mapstructure:"retentionDays" validate:"gte=0"` // 单位: 天
}

func (ArchiveConfig) Key() string {
	return "archive"
}

type GinConfig struct {
	Addr        string `yaml:"addr" mapstructure:"addr" validate:"required"`
	EnablePprof bool   `yaml:"enablePprof" mapstructure:"enablePprof"`
}

func (GinConfig) Key() string {
	return "gin"
}

type ExporterConfig struct {
	BatchSize int `yaml:"batchSize" mapstructure:"batchSize" validate:"gte=0,lte=10000"`
}

func (ExporterConfig) Key() string {
	return "exporter"
}
