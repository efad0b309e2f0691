package service

import (
	"context"
	"fmt"

	"github.com/to404hanga/ctf_checker/model"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
	"gorm.io/gorm"
)

type UserService interface {
	// ExistsUser 判断用户是否存在
	ExistsUser(ctx context.Context, userID uint64) (bool, error)
}

type UserServiceImpl struct {
	db  *gorm.DB
	log loggerv2.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

func NewUserService(db *gorm.DB, log loggerv2.Logger) UserService {
	return &UserServiceImpl{
		db:  db,
		log: log,
	}
}

func (s *UserServiceImpl) ExistsUser(ctx context.Context, userID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("ExistsUser failed: %w", err)
	}
	return count > 0, nil
}
