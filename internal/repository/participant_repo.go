package repository

import (
	"context"
	"fmt"
	"time"

	"EventHub/internal/model"

	"gorm.io/gorm"
)

// ResponseScore 一次回答对参与者聚合值的增量
type ResponseScore struct {
	Points    int
	Quality   float64
	Sentiment float64
	At        time.Time
}

// ParticipantRepository 参与者仓储
type ParticipantRepository interface {
	Get(ctx context.Context, id uint64) (*model.Participant, error)
	FindByEventAndUser(ctx context.Context, eventID uint64, userID string) (*model.Participant, error)
	Create(ctx context.Context, participant *model.Participant) error
	// ListByEvent 活动下全部参与者（无序，排序由排名计算负责）
	ListByEvent(ctx context.Context, eventID uint64) ([]*model.Participant, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Participant, error)
	ListByIDs(ctx context.Context, ids []uint64) ([]*model.Participant, error)
	// ApplyResponse 原子地累加积分与回答数，并更新质量/情绪的滑动平均
	ApplyResponse(ctx context.Context, id uint64, score ResponseScore) error
	// UpdateRanks 批量写入排名，ranks 为 participant_id → 名次
	UpdateRanks(ctx context.Context, ranks map[uint64]int) error
	// Reset 删除参与者的回答与用户消息并清零聚合值（事务内完成）
	Reset(ctx context.Context, id uint64) error
}

type participantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Get(ctx context.Context, id uint64) (*model.Participant, error) {
	var participant model.Participant
	if err := r.db.WithContext(ctx).First(&participant, id).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) FindByEventAndUser(ctx context.Context, eventID uint64, userID string) (*model.Participant, error) {
	var participant model.Participant
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) Create(ctx context.Context, participant *model.Participant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

func (r *participantRepository) ListByEvent(ctx context.Context, eventID uint64) ([]*model.Participant, error) {
	var participants []*model.Participant
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *participantRepository) ListByUser(ctx context.Context, userID string) ([]*model.Participant, error) {
	var participants []*model.Participant
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("joined_at ASC").Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *participantRepository) ListByIDs(ctx context.Context, ids []uint64) ([]*model.Participant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var participants []*model.Participant
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *participantRepository) ApplyResponse(ctx context.Context, id uint64, score ResponseScore) error {
	// SET 右侧引用的都是更新前的值
	result := r.db.WithContext(ctx).Model(&model.Participant{}).Where("id = ?", id).Updates(map[string]interface{}{
		"points":           gorm.Expr("points + ?", score.Points),
		"responses_count":  gorm.Expr("responses_count + 1"),
		"quality_score":    gorm.Expr("(quality_score * responses_count + ?) / (responses_count + 1)", score.Quality),
		"sentiment_score":  gorm.Expr("(sentiment_score * responses_count + ?) / (responses_count + 1)", score.Sentiment),
		"last_activity_at": score.At,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *participantRepository) UpdateRanks(ctx context.Context, ranks map[uint64]int) error {
	if len(ranks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, position := range ranks {
			if err := tx.Model(&model.Participant{}).Where("id = ?", id).Update("rank_position", position).Error; err != nil {
				return fmt.Errorf("更新排名失败: %w, participant_id: %d", err, id)
			}
		}
		return nil
	})
}

func (r *participantRepository) Reset(ctx context.Context, id uint64) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := tx.Where("participant_id = ?", id).Delete(&model.Response{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("删除回答失败: %w", err)
	}
	if err := tx.Where("participant_id = ? AND message_type = ?", id, model.MessageUser).Delete(&model.Message{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("删除用户消息失败: %w", err)
	}
	result := tx.Model(&model.Participant{}).Where("id = ?", id).Updates(map[string]interface{}{
		"points":          0,
		"streak":          0,
		"responses_count": 0,
		"quality_score":   0,
		"sentiment_score": 0,
		"rank_position":   nil,
	})
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("清零参与者失败: %w", result.Error)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}
