package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"EventHub/internal/model"
	"EventHub/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// JoinRequest 加入活动
type JoinRequest struct {
	EventID   uint64  `json:"event_id"`
	UserID    string  `json:"user_id"`
	Name      string  `json:"name"`
	Email     *string `json:"email"`
	AvatarURL *string `json:"avatar_url"`
}

// ParticipantStats 同一用户在所有活动中的汇总
type ParticipantStats struct {
	ParticipantID    uint64  `json:"participant_id"`
	UserID           string  `json:"user_id"`
	TotalPoints      int     `json:"total_points"`
	TotalEvents      int     `json:"total_events"`
	TotalResponses   int     `json:"total_responses"`
	AverageQuality   float64 `json:"average_quality"`
	AverageSentiment float64 `json:"average_sentiment"`
	BadgesCount      int64   `json:"badges_count"`
	BestRank         *int    `json:"best_rank"`
}

type ParticipantService struct {
	events       repository.EventRepository
	participants repository.ParticipantRepository
	questions    repository.QuestionRepository
	messages     repository.MessageRepository
	badges       repository.BadgeRepository
	ranking      *RankingService
	logger       *logrus.Logger
}

func NewParticipantService(
	events repository.EventRepository,
	participants repository.ParticipantRepository,
	questions repository.QuestionRepository,
	messages repository.MessageRepository,
	badges repository.BadgeRepository,
	ranking *RankingService,
	logger *logrus.Logger,
) *ParticipantService {
	return &ParticipantService{
		events:       events,
		participants: participants,
		questions:    questions,
		messages:     messages,
		badges:       badges,
		ranking:      ranking,
		logger:       logger,
	}
}

// Join 加入活动；(event, user) 已存在时返回原记录且 created=false
func (s *ParticipantService) Join(ctx context.Context, req JoinRequest) (*model.Participant, bool, error) {
	if req.EventID == 0 || strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, false, Validation("event_id, user_id and name are required", "missing required field")
	}
	event, err := s.events.Get(ctx, req.EventID)
	if err != nil {
		return nil, false, notFoundOr(err, "Event not found")
	}

	existing, err := s.participants.FindByEventAndUser(ctx, req.EventID, req.UserID)
	if err == nil {
		s.ensureInitialMessages(ctx, event.ID)
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	streak, err := s.streak(ctx, event, req.UserID)
	if err != nil {
		return nil, false, err
	}
	participant := &model.Participant{
		EventID:   event.ID,
		UserID:    req.UserID,
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
		Streak:    streak,
		JoinedAt:  time.Now().UTC(),
	}
	if err := s.participants.Create(ctx, participant); err != nil {
		// 并发加入时唯一索引冲突，返回已存在的记录
		if existing, findErr := s.participants.FindByEventAndUser(ctx, req.EventID, req.UserID); findErr == nil {
			return existing, false, nil
		}
		return nil, false, err
	}
	s.logger.WithFields(logrus.Fields{
		"event_id":       event.ID,
		"participant_id": participant.ID,
		"user_id":        participant.UserID,
		"streak":         streak,
	}).Info("参与者已加入活动")

	if _, err := s.ranking.Recompute(ctx, event.ID); err != nil {
		s.logger.WithError(err).WithField("event_id", event.ID).Warn("重算排名失败")
	}
	s.ensureInitialMessages(ctx, event.ID)

	if fresh, err := s.participants.Get(ctx, participant.ID); err == nil {
		participant = fresh
	}
	return participant, true, nil
}

// streak 从本活动往前数，用户连续参与的活动数（含本活动）
func (s *ParticipantService) streak(ctx context.Context, event *model.Event, userID string) (int, error) {
	earlier, err := s.events.ListBefore(ctx, event.EventDate, event.ID)
	if err != nil {
		return 0, err
	}
	if len(earlier) == 0 {
		return 1, nil
	}
	joined, err := s.participants.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	attended := make(map[uint64]bool, len(joined))
	for _, p := range joined {
		attended[p.EventID] = true
	}

	streak := 1
	for _, e := range earlier {
		if !attended[e.ID] {
			break
		}
		streak++
	}
	return streak, nil
}

// ensureInitialMessages 活动还没有机器人消息时写入欢迎语和第一题
func (s *ParticipantService) ensureInitialMessages(ctx context.Context, eventID uint64) {
	bots, err := s.messages.CountByType(ctx, eventID, model.MessageBot)
	if err != nil {
		s.logger.WithError(err).WithField("event_id", eventID).Warn("查询机器人消息失败")
		return
	}
	if bots > 0 {
		return
	}

	texts := []string{WelcomeMessage}
	questions, err := s.questions.List(ctx, eventID)
	if err != nil {
		s.logger.WithError(err).WithField("event_id", eventID).Warn("查询问题失败")
	} else if len(questions) > 0 {
		texts = append(texts, QuestionPrompt(1, len(questions), questions[0].Text))
	}
	for _, text := range texts {
		if err := s.messages.Create(ctx, &model.Message{EventID: eventID, Text: text, MessageType: model.MessageBot}); err != nil {
			s.logger.WithError(err).WithField("event_id", eventID).Warn("写入初始消息失败")
			return
		}
	}
}

func (s *ParticipantService) Get(ctx context.Context, id uint64) (*model.Participant, error) {
	participant, err := s.participants.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Participant with ID %d not found", id)
	}
	return participant, nil
}

func (s *ParticipantService) Stats(ctx context.Context, id uint64) (*ParticipantStats, error) {
	participant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.participants.ListByUser(ctx, participant.UserID)
	if err != nil {
		return nil, err
	}

	stats := &ParticipantStats{ParticipantID: participant.ID, UserID: participant.UserID, TotalEvents: len(all)}
	ids := make([]uint64, 0, len(all))
	var scored int
	for _, p := range all {
		ids = append(ids, p.ID)
		stats.TotalPoints += p.Points
		stats.TotalResponses += p.ResponsesCount
		if p.ResponsesCount > 0 {
			stats.AverageQuality += p.QualityScore
			stats.AverageSentiment += p.SentimentScore
			scored++
		}
		if p.RankPosition != nil && (stats.BestRank == nil || *p.RankPosition < *stats.BestRank) {
			rank := *p.RankPosition
			stats.BestRank = &rank
		}
	}
	if scored > 0 {
		stats.AverageQuality /= float64(scored)
		stats.AverageSentiment /= float64(scored)
	}
	if stats.BadgesCount, err = s.badges.CountByParticipants(ctx, ids); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *ParticipantService) Badges(ctx context.Context, id uint64) ([]*model.ParticipantBadge, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.badges.ListByParticipant(ctx, id)
}

// Reset 清空参与者在活动中的答题进度；重复调用结果不变，已获得的徽章保留
func (s *ParticipantService) Reset(ctx context.Context, id uint64) (*model.Participant, error) {
	participant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.participants.Reset(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.ranking.Recompute(ctx, participant.EventID); err != nil {
		s.logger.WithError(err).WithField("event_id", participant.EventID).Warn("重算排名失败")
	}
	s.logger.WithField("participant_id", id).Info("参与者进度已重置")
	return s.Get(ctx, id)
}
