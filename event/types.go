package event

import (
	"fmt"

	json "github.com/bytedance/sonic"
	"github.com/to404hanga/ctf_checker/model"
)

const (
	SubmissionTopic = "submission_topic"
	VerdictTopic    = "submission_verdict_topic"
)

// SubmissionMessage 提交创建事件, 只携带 id, 判定时以数据库中的数据为准
type SubmissionMessage struct {
	SubmissionID uint64 `json:"submission_id"`
}

func (s *SubmissionMessage) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

func (s *SubmissionMessage) Unmarshal(data []byte) error {
	if err := json.Unmarshal(data, s); err != nil {
		return err
	}
	if s.SubmissionID == 0 {
		return fmt.Errorf("submission_id is required")
	}
	return nil
}

// VerdictMessage 判定结果事件
type VerdictMessage struct {
	SubmissionID uint64                 `json:"submission_id"`
	UserID       uint64                 `json:"user_id"`
	TeamID       *uint64                `json:"team_id,omitempty"`
	ChallengeID  uint64                 `json:"challenge_id"`
	GameID       *uint64                `json:"game_id,omitempty"`
	Status       model.SubmissionStatus `json:"status"`
	StatusName   string                 `json:"status_name"`
	CheckedAt    int64                  `json:"checked_at"` // 毫秒时间戳
}

func (v *VerdictMessage) Marshal() ([]byte, error) {
	return json.Marshal(v)
}

func (v *VerdictMessage) Unmarshal(data []byte) error {
	return json.Unmarshal(data, v)
}
