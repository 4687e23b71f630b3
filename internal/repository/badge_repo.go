package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"EventHub/internal/model"

	"gorm.io/gorm"
)

// BadgeRepository 徽章定义与获得记录仓储
type BadgeRepository interface {
	// Seed 按 name 幂等写入徽章定义
	Seed(ctx context.Context, defs []model.Badge) error
	ListAll(ctx context.Context) ([]*model.Badge, error)
	// ListByParticipant 参与者获得的徽章（附带徽章定义），按获得时间升序
	ListByParticipant(ctx context.Context, participantID uint64) ([]*model.ParticipantBadge, error)
	Award(ctx context.Context, participantID, badgeID uint64, at time.Time) error
	// IconsByParticipants 批量获取参与者徽章图标
	IconsByParticipants(ctx context.Context, participantIDs []uint64) (map[uint64][]string, error)
	CountByParticipants(ctx context.Context, participantIDs []uint64) (int64, error)
}

type badgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) Seed(ctx context.Context, defs []model.Badge) error {
	for i := range defs {
		var existing model.Badge
		err := r.db.WithContext(ctx).Where("name = ?", defs[i].Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("查询徽章失败: %w, name: %s", err, defs[i].Name)
		}
		badge := defs[i]
		badge.ID = 0
		if err := r.db.WithContext(ctx).Create(&badge).Error; err != nil {
			return fmt.Errorf("写入徽章失败: %w, name: %s", err, defs[i].Name)
		}
	}
	return nil
}

func (r *badgeRepository) ListAll(ctx context.Context) ([]*model.Badge, error) {
	var badges []*model.Badge
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *badgeRepository) ListByParticipant(ctx context.Context, participantID uint64) ([]*model.ParticipantBadge, error) {
	var earned []*model.ParticipantBadge
	if err := r.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		Order("earned_at ASC").Order("id ASC").
		Find(&earned).Error; err != nil {
		return nil, err
	}
	if len(earned) == 0 {
		return earned, nil
	}

	ids := make([]uint64, 0, len(earned))
	for _, pb := range earned {
		ids = append(ids, pb.BadgeID)
	}
	var badges []*model.Badge
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&badges).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.Badge, len(badges))
	for _, b := range badges {
		byID[b.ID] = b
	}
	for _, pb := range earned {
		pb.Badge = byID[pb.BadgeID]
	}
	return earned, nil
}

func (r *badgeRepository) Award(ctx context.Context, participantID, badgeID uint64, at time.Time) error {
	return r.db.WithContext(ctx).Create(&model.ParticipantBadge{
		ParticipantID: participantID,
		BadgeID:       badgeID,
		EarnedAt:      at,
	}).Error
}

func (r *badgeRepository) IconsByParticipants(ctx context.Context, participantIDs []uint64) (map[uint64][]string, error) {
	icons := make(map[uint64][]string, len(participantIDs))
	if len(participantIDs) == 0 {
		return icons, nil
	}

	var rows []struct {
		ParticipantID uint64
		Icon          string
	}
	if err := r.db.WithContext(ctx).Table("participant_badges").
		Select("participant_badges.participant_id, badges.icon").
		Joins("JOIN badges ON badges.id = participant_badges.badge_id").
		Where("participant_badges.participant_id IN ?", participantIDs).
		Order("participant_badges.earned_at ASC").Order("participant_badges.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		icons[row.ParticipantID] = append(icons[row.ParticipantID], row.Icon)
	}
	return icons, nil
}

func (r *badgeRepository) CountByParticipants(ctx context.Context, participantIDs []uint64) (int64, error) {
	if len(participantIDs) == 0 {
		return 0, nil
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&model.ParticipantBadge{}).
		Where("participant_id IN ?", participantIDs).
		Count(&total).Error
	return total, err
}
