package ioc

import (
	"time"

	"github.com/to404hanga/ctf_checker/checker"
	"github.com/to404hanga/ctf_checker/config"
	"github.com/to404hanga/ctf_checker/pkg/lease"
	"github.com/to404hanga/ctf_checker/service"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

func InitChecker(
	queue *checker.Queue,
	submissionSvc service.SubmissionService,
	challengeSvc service.ChallengeService,
	podSvc service.PodService,
	userSvc service.UserService,
	publisher checker.VerdictPublisher,
	l lease.Lease,
	log loggerv2.Logger,
) *checker.Checker {
	var cfg config.CheckerConfig
	UnmarshalConfig(&cfg)

	c := checker.NewChecker(queue, submissionSvc, challengeSvc, podSvc, userSvc, publisher, l, log)
	if cfg.Retry.Times > 0 {
		c.SetRetry(cfg.Retry.Times, time.Duration(cfg.Retry.BaseInterval)*time.Millisecond)
	}
	return c
}
