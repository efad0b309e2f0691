package ioc

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/to404hanga/ctf_checker/config"
)

// InitRedis 未配置地址时返回 nil
func InitRedis() redis.Cmdable {
	var cfg config.RedisConfig
	UnmarshalConfig(&cfg)
	if cfg.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Panicf("connect redis failed: %v", err)
	}
	return client
}
