package repository

import (
	"context"

	"EventHub/internal/model"

	"gorm.io/gorm"
)

// ResponseFilter 回答列表筛选条件，零值表示不过滤
type ResponseFilter struct {
	QuestionID    uint64
	ParticipantID uint64
}

// EventResponseStats 活动维度的回答统计
type EventResponseStats struct {
	Total            int64
	AverageQuality   float64
	AverageSentiment float64
}

// ResponseRepository 回答仓储
type ResponseRepository interface {
	List(ctx context.Context, filter ResponseFilter) ([]*model.Response, error)
	Get(ctx context.Context, id uint64) (*model.Response, error)
	Create(ctx context.Context, response *model.Response) error
	Exists(ctx context.Context, questionID, participantID uint64) (bool, error)
	// FirstForQuestion 问题下最早的一条回答
	FirstForQuestion(ctx context.Context, questionID uint64) (*model.Response, error)
	CountQualityByParticipant(ctx context.Context, participantID uint64, minQuality float64) (int64, error)
	CountSentimentByParticipant(ctx context.Context, participantID uint64, sentiment model.Sentiment) (int64, error)
	StatsByEvent(ctx context.Context, eventID uint64) (EventResponseStats, error)
	// TopQuality 质量分不低于 minQuality 的回答，按质量、时间倒序；eventID 为 0 时不限活动
	TopQuality(ctx context.Context, eventID uint64, minQuality float64, limit int) ([]*model.Response, error)
}

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) List(ctx context.Context, filter ResponseFilter) ([]*model.Response, error) {
	db := r.db.WithContext(ctx).Model(&model.Response{})
	if filter.QuestionID != 0 {
		db = db.Where("question_id = ?", filter.QuestionID)
	}
	if filter.ParticipantID != 0 {
		db = db.Where("participant_id = ?", filter.ParticipantID)
	}
	var responses []*model.Response
	if err := db.Order("created_at ASC").Order("id ASC").Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepository) Get(ctx context.Context, id uint64) (*model.Response, error) {
	var response model.Response
	if err := r.db.WithContext(ctx).First(&response, id).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *responseRepository) Create(ctx context.Context, response *model.Response) error {
	return r.db.WithContext(ctx).Create(response).Error
}

func (r *responseRepository) Exists(ctx context.Context, questionID, participantID uint64) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Response{}).
		Where("question_id = ? AND participant_id = ?", questionID, participantID).
		Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *responseRepository) FirstForQuestion(ctx context.Context, questionID uint64) (*model.Response, error) {
	var response model.Response
	if err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at ASC").Order("id ASC").
		First(&response).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *responseRepository) CountQualityByParticipant(ctx context.Context, participantID uint64, minQuality float64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Response{}).
		Where("participant_id = ? AND quality_score >= ?", participantID, minQuality).
		Count(&total).Error
	return total, err
}

func (r *responseRepository) CountSentimentByParticipant(ctx context.Context, participantID uint64, sentiment model.Sentiment) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Response{}).
		Where("participant_id = ? AND sentiment = ?", participantID, sentiment).
		Count(&total).Error
	return total, err
}

func (r *responseRepository) StatsByEvent(ctx context.Context, eventID uint64) (EventResponseStats, error) {
	var stats EventResponseStats
	err := r.db.WithContext(ctx).Table("responses").
		Select("COUNT(responses.id), COALESCE(AVG(responses.quality_score), 0), COALESCE(AVG(responses.sentiment_score), 0)").
		Joins("JOIN questions ON questions.id = responses.question_id").
		Where("questions.event_id = ?", eventID).
		Row().Scan(&stats.Total, &stats.AverageQuality, &stats.AverageSentiment)
	return stats, err
}

func (r *responseRepository) TopQuality(ctx context.Context, eventID uint64, minQuality float64, limit int) ([]*model.Response, error) {
	if limit <= 0 {
		limit = 5
	}
	db := r.db.WithContext(ctx).Model(&model.Response{}).Where("responses.quality_score >= ?", minQuality)
	if eventID != 0 {
		db = db.Joins("JOIN questions ON questions.id = responses.question_id").
			Where("questions.event_id = ?", eventID)
	}
	var responses []*model.Response
	if err := db.
		Order("responses.quality_score DESC").
		Order("responses.created_at DESC").
		Order("responses.id DESC").
		Limit(limit).
		Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}
