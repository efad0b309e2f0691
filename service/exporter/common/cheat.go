package common

import (
	"context"
	"strconv"
	"time"

	"github.com/to404hanga/ctf_checker/model"
	"github.com/to404hanga/ctf_checker/service"
)

const DefaultBatchSize = 1000

// CheatReportHeaders 报表表头
var CheatReportHeaders = []string{
	"提交ID",
	"用户ID",
	"用户名",
	"队伍ID",
	"题目ID",
	"比赛ID",
	"Flag",
	"提交时间",
}

// StreamCheatRecords 在后台分批读取作弊提交.
// records 关闭前 errs 已经关闭, 调用方读完 records 后再读取一次 errs 即可得到读取错误.
func StreamCheatRecords(ctx context.Context, submissionSvc service.SubmissionService, gameID *uint64, batchSize int) (<-chan []model.CheatRecord, <-chan error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	recordCh := make(chan []model.CheatRecord, 3)
	errCh := make(chan error, 1)

	go func() {
		defer close(recordCh)
		defer close(errCh)
		for page := 1; ; page++ {
			if err := ctx.Err(); err != nil {
				errCh <- err
				return
			}
			records, err := submissionSvc.FindCheatSubmissions(ctx, gameID, page, batchSize)
			if err != nil {
				errCh <- err
				return
			}
			if len(records) == 0 {
				return
			}
			select {
			case recordCh <- records:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
			if len(records) < batchSize {
				return
			}
		}
	}()

	return recordCh, errCh
}

// CheatRecordRow 把一条记录转换成报表行
func CheatRecordRow(r model.CheatRecord) []string {
	return []string{
		strconv.FormatUint(r.SubmissionID, 10),
		strconv.FormatUint(r.UserID, 10),
		r.Username,
		optionalID(r.TeamID),
		strconv.FormatUint(r.ChallengeID, 10),
		optionalID(r.GameID),
		r.Flag,
		r.CreatedAt.Format(time.DateTime),
	}
}

func optionalID(id *uint64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(*id, 10)
}
