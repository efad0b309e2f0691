//go:build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/to404hanga/ctf_checker/checker"
	"github.com/to404hanga/ctf_checker/cmd/checker/ioc"
	commonioc "github.com/to404hanga/ctf_checker/ioc"
	"github.com/to404hanga/ctf_checker/job"
	"github.com/to404hanga/ctf_checker/service"
	"github.com/to404hanga/ctf_checker/web"
)

func BuildDependency() *App {
	wire.Build(
		commonioc.InitLogger,
		commonioc.InitDB,
		commonioc.InitRedis,
		commonioc.InitLease,
		commonioc.InitKafkaProducer,
		commonioc.InitVerdictPublisher,
		commonioc.InitSubmissionConsumer,
		commonioc.InitExporterFactory,

		service.NewSubmissionService,
		service.NewChallengeService,
		service.NewPodService,
		service.NewUserService,

		checker.NewQueue,
		commonioc.InitChecker,
		wire.Bind(new(checker.Enqueuer), new(*checker.Checker)),
		wire.Bind(new(web.SubmissionChecker), new(*checker.Checker)),
		wire.Bind(new(web.ReadinessProbe), new(*checker.Checker)),

		web.NewHealthHandler,
		web.NewCheckerHandler,
		web.NewJobHandler,
		wire.Bind(new(web.JobController), new(*job.CronScheduler)),

		ioc.InitScheduler,
		ioc.InitGinServer,

		wire.Struct(new(App), "*"),
	)
	return &App{}
}
