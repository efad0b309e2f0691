package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/to404hanga/ctf_checker/model"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
	"gorm.io/gorm"
)

type SubmissionService interface {
	// GetPendingSubmission 获取处于待判定状态的提交, 不存在或已判定时返回 ErrNotFound
	GetPendingSubmission(ctx context.Context, submissionID uint64) (*model.Submission, error)
	// FindPendingSubmissionIDs 按创建时间升序获取待判定提交, createdBefore 为零值时不限制创建时间
	FindPendingSubmissionIDs(ctx context.Context, createdBefore time.Time) ([]uint64, error)
	// FindCorrectSubmissions 获取题目下已判定为正确的提交, gameID 非空时限定比赛范围
	FindCorrectSubmissions(ctx context.Context, challengeID uint64, gameID *uint64) ([]model.Submission, error)
	// DeleteSubmission 删除提交
	DeleteSubmission(ctx context.Context, submissionID uint64) error
	// UpdateSubmissionStatus 仅当提交仍存在且处于待判定状态时写入终态, 否则返回 ErrNotFound
	UpdateSubmissionStatus(ctx context.Context, submissionID uint64, status model.SubmissionStatus) error
	// FindCheatSubmissions 分页获取作弊提交, 用于导出
	FindCheatSubmissions(ctx context.Context, gameID *uint64, page, pageSize int) ([]model.CheatRecord, error)
}

type SubmissionServiceImpl struct {
	db  *gorm.DB
	log loggerv2.Logger
}

var _ SubmissionService = (*SubmissionServiceImpl)(nil)

func NewSubmissionService(db *gorm.DB, log loggerv2.Logger) SubmissionService {
	return &SubmissionServiceImpl{
		db:  db,
		log: log,
	}
}

func (s *SubmissionServiceImpl) GetPendingSubmission(ctx context.Context, submissionID uint64) (*model.Submission, error) {
	var submission model.Submission
	err := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("id = ?", submissionID).
		Where("status = ?", model.SubmissionStatusPending).
		First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetPendingSubmission failed: %w", err)
	}
	return &submission, nil
}

func (s *SubmissionServiceImpl) FindPendingSubmissionIDs(ctx context.Context, createdBefore time.Time) ([]uint64, error) {
	tx := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("status = ?", model.SubmissionStatusPending)
	if !createdBefore.IsZero() {
		tx = tx.Where("created_at < ?", createdBefore)
	}

	var ids []uint64
	err := tx.Order("created_at ASC").Order("id ASC").Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("FindPendingSubmissionIDs failed: %w", err)
	}
	return ids, nil
}

func (s *SubmissionServiceImpl) FindCorrectSubmissions(ctx context.Context, challengeID uint64, gameID *uint64) ([]model.Submission, error) {
	tx := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("challenge_id = ?", challengeID).
		Where("status = ?", model.SubmissionStatusCorrect)
	if gameID != nil {
		tx = tx.Where("game_id = ?", *gameID)
	}

	var submissions []model.Submission
	if err := tx.Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("FindCorrectSubmissions failed: %w", err)
	}
	return submissions, nil
}

func (s *SubmissionServiceImpl) DeleteSubmission(ctx context.Context, submissionID uint64) error {
	err := s.db.WithContext(ctx).
		Where("id = ?", submissionID).
		Delete(&model.Submission{}).Error
	if err != nil {
		return fmt.Errorf("DeleteSubmission failed: %w", err)
	}
	return nil
}

func (s *SubmissionServiceImpl) UpdateSubmissionStatus(ctx context.Context, submissionID uint64, status model.SubmissionStatus) error {
	if !status.IsTerminal() {
		return fmt.Errorf("UpdateSubmissionStatus failed: %w: %s", ErrNonTerminalStatus, status)
	}
	res := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("id = ?", submissionID).
		Where("status = ?", model.SubmissionStatusPending).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("UpdateSubmissionStatus failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("UpdateSubmissionStatus failed: %w", ErrNotFound)
	}
	return nil
}

func (s *SubmissionServiceImpl) FindCheatSubmissions(ctx context.Context, gameID *uint64, page, pageSize int) ([]model.CheatRecord, error) {
	tx := s.db.WithContext(ctx).Table("submission AS s").
		Select("s.id AS submission_id, s.user_id, COALESCE(u.username, '') AS username, s.team_id, s.challenge_id, s.game_id, s.flag, s.created_at").
		Joins("LEFT JOIN user u ON u.id = s.user_id").
		Where("s.status = ?", model.SubmissionStatusCheat)
	if gameID != nil {
		tx = tx.Where("s.game_id = ?", *gameID)
	}

	var records []model.CheatRecord
	err := tx.Order("s.id ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&records).Error
	if err != nil {
		return nil, fmt.Errorf("FindCheatSubmissions failed: %w", err)
	}
	return records, nil
}
