package model

import "time"

type SubmissionStatus int8

const (
	SubmissionStatusPending   SubmissionStatus = 0 // 待判定
	SubmissionStatusCorrect   SubmissionStatus = 1 // 正确
	SubmissionStatusIncorrect SubmissionStatus = 2 // 错误
	SubmissionStatusCheat     SubmissionStatus = 3 // 作弊, 提交了他人 pod 的 flag 或已泄露的 flag
	SubmissionStatusInvalid   SubmissionStatus = 4 // 无效, 该用户/队伍已经通过此题
)

var submissionStatusNames = map[SubmissionStatus]string{
	SubmissionStatusPending:   "Pending",
	SubmissionStatusCorrect:   "Correct",
	SubmissionStatusIncorrect: "Incorrect",
	SubmissionStatusCheat:     "Cheat",
	SubmissionStatusInvalid:   "Invalid",
}

func (s SubmissionStatus) String() string {
	if name, ok := submissionStatusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsTerminal 终态之后不允许再次变更
func (s SubmissionStatus) IsTerminal() bool {
	switch s {
	case SubmissionStatusCorrect, SubmissionStatusIncorrect, SubmissionStatusCheat, SubmissionStatusInvalid:
		return true
	}
	return false
}

type Submission struct {
	ID          uint64           `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uint64           `json:"user_id" gorm:"not null;index"`
	TeamID      *uint64          `json:"team_id" gorm:"index"`
	ChallengeID uint64           `json:"challenge_id" gorm:"not null;index:idx_challenge_status"`
	GameID      *uint64          `json:"game_id" gorm:"index"`
	Flag        string           `json:"flag" gorm:"type:varchar(512);not null"`
	Status      SubmissionStatus `json:"status" gorm:"not null;default:0;index:idx_challenge_status"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (Submission) TableName() string {
	return "submission"
}

// CheatRecord 作弊提交导出记录
type CheatRecord struct {
	SubmissionID uint64    `json:"submission_id" gorm:"column:submission_id"`
	UserID       uint64    `json:"user_id" gorm:"column:user_id"`
	Username     string    `json:"username" gorm:"column:username"`
	TeamID       *uint64   `json:"team_id" gorm:"column:team_id"`
	ChallengeID  uint64    `json:"challenge_id" gorm:"column:challenge_id"`
	GameID       *uint64   `json:"game_id" gorm:"column:game_id"`
	Flag         string    `json:"flag" gorm:"column:flag"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}
