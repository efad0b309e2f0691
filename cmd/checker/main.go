package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/to404hanga/pkg404/logger"
)

const (
	defaultConfigPath = "./config/config.yaml"
	shutdownTimeout   = 30 * time.Second
)

func main() {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		log.Panicf("load location failed: %v", err)
	}
	time.Local = loc

	cfile := pflag.String("config", defaultConfigPath, "config file path")
	pflag.Parse()

	viper.SetConfigFile(*cfile)
	if err := viper.ReadInConfig(); err != nil {
		log.Panicf("read config file failed: %v", err)
	}

	// 参数校验统一由 gintool.WrapHandler 在所有来源绑定完成后执行
	gin.DisableBindValidation()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := BuildDependency()
	app.run(ctx)
}

func (app *App) run(ctx context.Context) {
	// HTTP 先启动, 等待租约期间存活探针可用, 就绪探针返回 503
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Server.Start()
	}()

	if err := app.Checker.Start(ctx); err != nil {
		app.Log.Error("Checker start failed", logger.Error(err))
		app.shutdown()
		return
	}
	if err := app.Scheduler.Start(); err != nil {
		app.Log.Error("Cron scheduler start failed", logger.Error(err))
	}
	if app.Consumer != nil {
		app.Consumer.Start()
	}
	app.Log.Info("CTF checker started", logger.String("addr", app.Server.Addr))

	select {
	case <-ctx.Done():
		app.Log.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			app.Log.Error("Gin server exited", logger.Error(err))
		}
	}
	app.shutdown()
}

// shutdown 按启动的逆序关闭, 未判定的提交留在库中等待下次恢复扫描
func (app *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if app.Consumer != nil {
		if err := app.Consumer.Close(); err != nil {
			app.Log.Warn("Close submission consumer failed", logger.Error(err))
		}
	}
	app.Scheduler.Stop()
	if err := app.Checker.Stop(ctx); err != nil {
		app.Log.Warn("Stop checker failed", logger.Error(err))
	}
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Warn("Shutdown gin server failed", logger.Error(err))
	}
	if err := app.Producer.Close(); err != nil {
		app.Log.Warn("Close kafka producer failed", logger.Error(err))
	}
	app.Log.Info("CTF checker stopped")
}
