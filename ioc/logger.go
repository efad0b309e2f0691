package ioc

import (
	"log"

	"github.com/to404hanga/ctf_checker/config"
	"github.com/to404hanga/ctf_checker/constants"
	"github.com/to404hanga/pkg404/logger"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

func InitLogger() loggerv2.Logger {
	var cfg config.LoggerConfig
	UnmarshalConfig(&cfg)

	var (
		l   *loggerv2.ZapContextLogger
		err error
	)
	if cfg.FilePath != "" {
		l, err = loggerv2.NewBothLogger(cfg.FilePath, cfg.Development, true)
	} else {
		l, err = loggerv2.NewConsoleLogger(cfg.Development)
	}
	if err != nil {
		log.Panicf("init logger failed: %v", err)
	}
	return l.With(logger.String("service", constants.ServiceName))
}
