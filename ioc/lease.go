package ioc

import (
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/to404hanga/ctf_checker/config"
	"github.com/to404hanga/ctf_checker/pkg/lease"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

// InitLease 未启用时使用 NopLease, 部署方需保证只有一个实例
func InitLease(client redis.Cmdable, l loggerv2.Logger) lease.Lease {
	var cfg config.CheckerConfig
	UnmarshalConfig(&cfg)
	if !cfg.Lease.Enabled {
		return lease.NopLease{}
	}
	if client == nil {
		log.Panicf("checker lease enabled but redis is not configured")
	}
	return lease.NewRedisLease(client, l, cfg.Lease.Key, time.Duration(cfg.Lease.TTL)*time.Millisecond)
}
