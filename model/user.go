package model

import "time"

type User struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "user"
}

type Team struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(64);not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Team) TableName() string {
	return "team"
}
