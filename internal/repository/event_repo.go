package repository

import (
	"context"
	"fmt"
	"time"

	"EventHub/internal/model"

	"gorm.io/gorm"
)

// EventRepository 活动仓储
type EventRepository interface {
	// List 按活动时间倒序列出，status 为空时不过滤
	List(ctx context.Context, status model.EventStatus) ([]*model.Event, error)
	Get(ctx context.Context, id uint64) (*model.Event, error)
	Create(ctx context.Context, event *model.Event) error
	Save(ctx context.Context, event *model.Event) error
	// Delete 在一个事务内删除活动及其问题、参与者、回答、消息和徽章记录，返回删除的活动行数
	Delete(ctx context.Context, id uint64) (int64, error)
	// CountParticipants 批量统计活动参与人数
	CountParticipants(ctx context.Context, eventIDs []uint64) (map[uint64]int64, error)
	// ListBefore 活动时间早于 before 的活动，按时间倒序（用于计算连续参与）
	ListBefore(ctx context.Context, before time.Time, excludeID uint64) ([]*model.Event, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) List(ctx context.Context, status model.EventStatus) ([]*model.Event, error) {
	db := r.db.WithContext(ctx).Model(&model.Event{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var events []*model.Event
	if err := db.Order("event_date DESC").Order("id DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Get(ctx context.Context, id uint64) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Save(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uint64) (int64, error) {
	// 开启事务
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return 0, fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	var participantIDs, questionIDs []uint64
	if err := tx.Model(&model.Participant{}).Where("event_id = ?", id).Pluck("id", &participantIDs).Error; err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("查询参与者失败: %w", err)
	}
	if err := tx.Model(&model.Question{}).Where("event_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("查询问题失败: %w", err)
	}

	// 1. 先删依赖参与者/问题的记录
	if len(participantIDs) > 0 {
		if err := tx.Where("participant_id IN ?", participantIDs).Delete(&model.ParticipantBadge{}).Error; err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("删除徽章记录失败: %w", err)
		}
		if err := tx.Where("participant_id IN ?", participantIDs).Delete(&model.Response{}).Error; err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("删除回答失败: %w", err)
		}
	}
	if len(questionIDs) > 0 {
		if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Response{}).Error; err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("删除回答失败: %w", err)
		}
	}

	// 2. 再删活动下的直接记录
	for _, m := range []interface{}{&model.Message{}, &model.Participant{}, &model.Question{}} {
		if err := tx.Where("event_id = ?", id).Delete(m).Error; err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("删除活动关联数据失败: %w", err)
		}
	}

	result := tx.Delete(&model.Event{}, id)
	if result.Error != nil {
		tx.Rollback()
		return 0, fmt.Errorf("删除活动失败: %w", result.Error)
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		return 0, fmt.Errorf("提交事务失败: %w", err)
	}
	return result.RowsAffected, nil
}

func (r *eventRepository) CountParticipants(ctx context.Context, eventIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		EventID uint64
		Total   int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Participant{}).
		Select("event_id, COUNT(*) AS total").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.EventID] = row.Total
	}
	return counts, nil
}

func (r *eventRepository) ListBefore(ctx context.Context, before time.Time, excludeID uint64) ([]*model.Event, error) {
	var events []*model.Event
	if err := r.db.WithContext(ctx).
		Where("event_date < ? AND id <> ?", before, excludeID).
		Order("event_date DESC").Order("id DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
