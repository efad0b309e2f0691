package ioc

import (
	"os"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/to404hanga/ctf_checker/config"
	"github.com/to404hanga/ctf_checker/constants"
	commonioc "github.com/to404hanga/ctf_checker/ioc"
	"github.com/to404hanga/ctf_checker/pkg/gintool"
	"github.com/to404hanga/ctf_checker/web"
	"github.com/to404hanga/pkg404/logger"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

func InitGinServer(l loggerv2.Logger, healthHandler *web.HealthHandler, checkerHandler *web.CheckerHandler, jobHandler *web.JobHandler) *web.GinServer {
	var cfg config.GinConfig
	commonioc.UnmarshalConfig(&cfg)

	// 优先使用环境变量中设置的服务端口
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Addr = ":" + port
	}

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		gintool.RequestIDMiddleware(),
		gintool.ContextMiddleware(),
	)

	healthHandler.Register(engine)
	checkerHandler.Register(engine)
	jobHandler.Register(engine)
	engine.GET(constants.MetricsPath, gin.WrapH(promhttp.Handler()))
	if cfg.EnablePprof {
		pprof.Register(engine)
	}

	l.Info("Gin server configured",
		logger.String("addr", cfg.Addr),
		logger.Bool("pprof", cfg.EnablePprof))

	return &web.GinServer{
		Engine: engine,
		Addr:   cfg.Addr,
	}
}
