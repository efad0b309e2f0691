package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/to404hanga/ctf_checker/model"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
	"gorm.io/gorm"
)

type ChallengeService interface {
	// GetChallenge 获取题目, 不存在时返回 ErrNotFound
	GetChallenge(ctx context.Context, challengeID uint64) (*model.Challenge, error)
}

type ChallengeServiceImpl struct {
	db  *gorm.DB
	log loggerv2.Logger
}

var _ ChallengeService = (*ChallengeServiceImpl)(nil)

func NewChallengeService(db *gorm.DB, log loggerv2.Logger) ChallengeService {
	return &ChallengeServiceImpl{
		db:  db,
		log: log,
	}
}

func (s *ChallengeServiceImpl) GetChallenge(ctx context.Context, challengeID uint64) (*model.Challenge, error) {
	var challenge model.Challenge
	err := s.db.WithContext(ctx).Model(&model.Challenge{}).
		Where("id = ?", challengeID).
		First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetChallenge failed: %w", err)
	}
	return &challenge, nil
}
