package main

import (
	"github.com/to404hanga/ctf_checker/checker"
	"github.com/to404hanga/ctf_checker/event"
	"github.com/to404hanga/ctf_checker/job"
	"github.com/to404hanga/ctf_checker/web"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

type App struct {
	Server    *web.GinServer
	Checker   *checker.Checker
	Scheduler *job.CronScheduler
	// Consumer 未启用 kafka 消费时为 nil
	Consumer *event.SubmissionConsumer
	Producer event.Producer
	Log      loggerv2.Logger
}
