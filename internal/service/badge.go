package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"EventHub/internal/model"
	"EventHub/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BadgeService 徽章定义与发放
type BadgeService struct {
	badges    repository.BadgeRepository
	responses repository.ResponseRepository
	questions repository.QuestionRepository
	logger    *logrus.Logger
}

func NewBadgeService(badges repository.BadgeRepository, responses repository.ResponseRepository, questions repository.QuestionRepository, logger *logrus.Logger) *BadgeService {
	return &BadgeService{badges: badges, responses: responses, questions: questions, logger: logger}
}

// Seed 写入内置徽章定义（幂等）
func (s *BadgeService) Seed(ctx context.Context) error {
	return s.badges.Seed(ctx, model.BadgeDefinitions)
}

// Check 根据参与者当前状态与最新回答发放尚未获得的徽章，返回新获得的徽章
func (s *BadgeService) Check(ctx context.Context, participant *model.Participant, response *model.Response) ([]*model.Badge, error) {
	all, err := s.badges.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		if err := s.Seed(ctx); err != nil {
			return nil, err
		}
		if all, err = s.badges.ListAll(ctx); err != nil {
			return nil, err
		}
	}

	earned, err := s.badges.ListByParticipant(ctx, participant.ID)
	if err != nil {
		return nil, err
	}
	owned := make(map[uint64]bool, len(earned))
	for _, pb := range earned {
		owned[pb.BadgeID] = true
	}

	var awarded []*model.Badge
	now := time.Now().UTC()
	for _, badge := range all {
		if owned[badge.ID] {
			continue
		}
		ok, err := s.meets(ctx, participant, response, badge)
		if err != nil {
			return awarded, fmt.Errorf("检查徽章 %s 失败: %w", badge.Name, err)
		}
		if !ok {
			continue
		}
		if err := s.badges.Award(ctx, participant.ID, badge.ID, now); err != nil {
			return awarded, fmt.Errorf("发放徽章 %s 失败: %w", badge.Name, err)
		}
		awarded = append(awarded, badge)
		s.logger.WithFields(logrus.Fields{
			"participant_id": participant.ID,
			"badge":          badge.Name,
		}).Info("徽章已发放")
	}
	return awarded, nil
}

func (s *BadgeService) meets(ctx context.Context, p *model.Participant, r *model.Response, badge *model.Badge) (bool, error) {
	threshold := badge.CriteriaValue
	switch badge.CriteriaType {
	case model.CriteriaTotalPoints:
		return p.Points >= threshold, nil
	case model.CriteriaStreak:
		return p.Streak >= threshold, nil
	case model.CriteriaFirstResponse:
		if r == nil {
			return false, nil
		}
		first, err := s.responses.FirstForQuestion(ctx, r.QuestionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return first.ID == r.ID, nil
	case model.CriteriaQualityResponses:
		n, err := s.responses.CountQualityByParticipant(ctx, p.ID, HighQualityThreshold)
		return n >= int64(threshold), err
	case model.CriteriaPositiveSentiment:
		n, err := s.responses.CountSentimentByParticipant(ctx, p.ID, model.SentimentPositive)
		return n >= int64(threshold), err
	case model.CriteriaFastResponse:
		return r != nil && r.ResponseTimeSeconds != nil && *r.ResponseTimeSeconds <= threshold, nil
	case model.CriteriaLongResponse:
		return r != nil && utf8.RuneCountInString(r.Text) >= threshold, nil
	case model.CriteriaCompletionRate:
		total, err := s.questions.CountByEvent(ctx, p.EventID)
		if err != nil || total == 0 {
			return false, err
		}
		return float64(p.ResponsesCount)/float64(total)*100 >= float64(threshold), nil
	}
	return false, nil
}
