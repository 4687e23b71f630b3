package repository

import (
	"context"

	"EventHub/internal/model"

	"gorm.io/gorm"
)

// QuestionRepository 问题仓储
type QuestionRepository interface {
	// List 按 order 升序列出；eventID 为 0 时列出全部
	List(ctx context.Context, eventID uint64) ([]*model.Question, error)
	Get(ctx context.Context, id uint64) (*model.Question, error)
	Create(ctx context.Context, question *model.Question) error
	Delete(ctx context.Context, id uint64) (int64, error)
	CountByEvent(ctx context.Context, eventID uint64) (int64, error)
	// NextOrder 活动下一个可用的 order
	NextOrder(ctx context.Context, eventID uint64) (int, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) List(ctx context.Context, eventID uint64) ([]*model.Question, error) {
	db := r.db.WithContext(ctx).Model(&model.Question{})
	if eventID != 0 {
		db = db.Where("event_id = ?", eventID)
	}
	var questions []*model.Question
	if err := db.Order("sort_order ASC").Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Get(ctx context.Context, id uint64) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) Delete(ctx context.Context, id uint64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Question{}, id)
	return result.RowsAffected, result.Error
}

func (r *questionRepository) CountByEvent(ctx context.Context, eventID uint64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Question{}).Where("event_id = ?", eventID).Count(&total).Error
	return total, err
}

func (r *questionRepository) NextOrder(ctx context.Context, eventID uint64) (int, error) {
	var maxOrder int64
	if err := r.db.WithContext(ctx).Model(&model.Question{}).
		Where("event_id = ?", eventID).
		Select("COALESCE(MAX(sort_order), 0)").
		Row().Scan(&maxOrder); err != nil {
		return 0, err
	}
	return int(maxOrder) + 1, nil
}
