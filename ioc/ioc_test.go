package ioc

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/to404hanga/ctf_checker/checker"
	"github.com/to404hanga/ctf_checker/event"
	"github.com/to404hanga/ctf_checker/pkg/lease"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
	"go.uber.org/zap"
)

func resetViper(t *testing.T, values map[string]any) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	for k, v := range values {
		viper.Set(k, v)
	}
}

func TestInitDisabledComponents(t *testing.T) {
	resetViper(t, map[string]any{
		"kafka.consumerEnabled": false,
		"kafka.producerEnabled": false,
	})

	assert.Nil(t, InitRedis())
	assert.IsType(t, lease.NopLease{}, InitLease(nil, loggerv2.NewZapContextLogger(zap.NewNop())))

	producer := InitKafkaProducer()
	assert.IsType(t, event.NopProducer{}, producer)
	assert.NotNil(t, InitVerdictPublisher(producer))
	assert.Nil(t, InitSubmissionConsumer(checker.NewQueue(), loggerv2.NewZapContextLogger(zap.NewNop())))
	assert.NotNil(t, InitExporterFactory(nil, loggerv2.NewZapContextLogger(zap.NewNop())))
}

func TestInitRedisLease(t *testing.T) {
	mr := miniredis.RunT(t)
	resetViper(t, map[string]any{
		"redis.addr":            mr.Addr(),
		"checker.lease.enabled": true,
		"checker.lease.key":     "ctf_checker:lease",
		"checker.lease.ttl":     5000,
	})

	client := InitRedis()
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.(*redis.Client).Close() })

	l := InitLease(client, loggerv2.NewZapContextLogger(zap.NewNop()))
	assert.IsType(t, &lease.RedisLease{}, l)
}

func TestInitLeaseWithoutRedisPanics(t *testing.T) {
	resetViper(t, map[string]any{
		"checker.lease.enabled": true,
		"checker.lease.key":     "ctf_checker:lease",
		"checker.lease.ttl":     5000,
	})

	assert.Panics(t, func() { InitLease(nil, loggerv2.NewZapContextLogger(zap.NewNop())) })
}

func TestUnmarshalConfigPanicsOnInvalid(t *testing.T) {
	resetViper(t, map[string]any{
		"db.dsn": "",
	})

	assert.Panics(t, func() { InitDB() })
}

func TestInitChecker(t *testing.T) {
	resetViper(t, map[string]any{
		"checker.retry.times":        2,
		"checker.retry.baseInterval": 50,
	})

	nop := loggerv2.NewZapContextLogger(zap.NewNop())
	c := InitChecker(checker.NewQueue(), nil, nil, nil, nil, nil, nil, nop)
	require.NotNil(t, c)
	assert.False(t, c.Status().Ready)
}

func TestInitLogger(t *testing.T) {
	resetViper(t, map[string]any{
		"logger.development": true,
	})

	l := InitLogger()
	require.NotNil(t, l)
	l.Info("logger ready")
}
