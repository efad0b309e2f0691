package model

import (
	"time"

	"gorm.io/datatypes"
)

// Flag 静态题目的 flag, Banned 表示已泄露或诱饵 flag, 命中即判作弊
type Flag struct {
	Value  string `json:"value"`
	Banned bool   `json:"banned"`
}

type Challenge struct {
	ID        uint64                    `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string                    `json:"title" gorm:"type:varchar(255);not null"`
	IsDynamic bool                      `json:"is_dynamic" gorm:"not null;default:false"`
	Flags     datatypes.JSONSlice[Flag] `json:"flags" gorm:"type:json"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

func (Challenge) TableName() string {
	return "challenge"
}
