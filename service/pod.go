package service

import (
	"context"
	"fmt"
	"time"

	"github.com/to404hanga/ctf_checker/model"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
	"gorm.io/gorm"
)

type PodService interface {
	// FindLivePods 获取题目下 removed_at 晚于 now 的 pod, gameID 非空时限定比赛范围
	FindLivePods(ctx context.Context, challengeID uint64, gameID *uint64, now time.Time) ([]model.Pod, error)
}

type PodServiceImpl struct {
	db  *gorm.DB
	log loggerv2.Logger
}

var _ PodService = (*PodServiceImpl)(nil)

func NewPodService(db *gorm.DB, log loggerv2.Logger) PodService {
	return &PodServiceImpl{
		db:  db,
		log: log,
	}
}

func (s *PodServiceImpl) FindLivePods(ctx context.Context, challengeID uint64, gameID *uint64, now time.Time) ([]model.Pod, error) {
	tx := s.db.WithContext(ctx).Model(&model.Pod{}).
		Where("challenge_id = ?", challengeID).
		Where("removed_at > ?", now)
	if gameID != nil {
		tx = tx.Where("game_id = ?", *gameID)
	}

	var pods []model.Pod
	if err := tx.Order("id ASC").Find(&pods).Error; err != nil {
		return nil, fmt.Errorf("FindLivePods failed: %w", err)
	}
	return pods, nil
}
