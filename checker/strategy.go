package checker

import (
	"time"

	"github.com/to404hanga/ctf_checker/model"
)

// Strategy 题目判定策略, Judge 返回去重之前的暂定状态
type Strategy interface {
	Judge(submission *model.Submission) model.SubmissionStatus
	Name() string
}

// StaticChallenge 静态题目, 所有人共享同一组 flag
type StaticChallenge struct {
	Flags []model.Flag
}

var _ Strategy = StaticChallenge{}

func (StaticChallenge) Name() string { return "static" }

// Judge 按顺序扫描 flag 列表, 命中 banned 立即判作弊;
// 命中普通 flag 判正确但继续扫描, 后面同值的 banned 仍会改判为作弊
func (s StaticChallenge) Judge(submission *model.Submission) model.SubmissionStatus {
	status := model.SubmissionStatusIncorrect
	for _, flag := range s.Flags {
		if flag.Value != submission.Flag {
			continue
		}
		if flag.Banned {
			return model.SubmissionStatusCheat
		}
		status = model.SubmissionStatusCorrect
	}
	return status
}

// DynamicChallenge 动态题目, 每个 pod 签发独立 flag
type DynamicChallenge struct {
	Pods []model.Pod
	Now  time.Time
}

var _ Strategy = DynamicChallenge{}

func (DynamicChallenge) Name() string { return "dynamic" }

// Judge 第一个 flag 相同的有效 pod 决定结果: 属于本人或本队为正确, 否则为作弊
func (d DynamicChallenge) Judge(submission *model.Submission) model.SubmissionStatus {
	for i := range d.Pods {
		pod := &d.Pods[i]
		if !pod.AliveAt(d.Now) {
			continue
		}
		if pod.Flag == nil || *pod.Flag != submission.Flag {
			continue
		}
		if pod.UserID == submission.UserID || sameTeam(pod.TeamID, submission.TeamID) {
			return model.SubmissionStatusCorrect
		}
		return model.SubmissionStatusCheat
	}
	return model.SubmissionStatusIncorrect
}

// Verify 计算提交的最终状态.
// flag 命中(正确或作弊)且同一用户(比赛内为同一队伍)已有正确提交时判为无效, 覆盖作弊结果;
// 未命中任何 flag 的提交保持错误.
func Verify(submission *model.Submission, strategy Strategy, solved []model.Submission) model.SubmissionStatus {
	status := strategy.Judge(submission)
	if status == model.SubmissionStatusIncorrect {
		return status
	}

	for i := range solved {
		exist := &solved[i]
		if exist.ID == submission.ID {
			continue
		}
		if exist.UserID == submission.UserID ||
			(submission.GameID != nil && sameTeam(exist.TeamID, submission.TeamID)) {
			return model.SubmissionStatusInvalid
		}
	}
	return status
}

// sameTeam 两个队伍 id 都非空且相等
func sameTeam(a, b *uint64) bool {
	return a != nil && b != nil && *a == *b
}
