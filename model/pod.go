package model

import "time"

// Pod 动态题目的运行实例, 每个实例签发独立的 flag
type Pod struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uint64    `json:"user_id" gorm:"not null;index"`
	TeamID      *uint64   `json:"team_id" gorm:"index"`
	ChallengeID uint64    `json:"challenge_id" gorm:"not null;index:idx_challenge_removed"`
	GameID      *uint64   `json:"game_id" gorm:"index"`
	Flag        *string   `json:"flag" gorm:"type:varchar(512)"`
	RemovedAt   time.Time `json:"removed_at" gorm:"not null;index:idx_challenge_removed"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Pod) TableName() string {
	return "pod"
}

// AliveAt pod 在 now 时刻是否仍然有效
func (p *Pod) AliveAt(now time.Time) bool {
	return p.RemovedAt.After(now)
}
