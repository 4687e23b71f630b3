package service

import (
	"context"
	"strings"
	"time"

	"EventHub/internal/interfaces"
	"EventHub/internal/model"
	"EventHub/internal/repository"

	"github.com/sirupsen/logrus"
)

// CreateEventRequest 创建活动
type CreateEventRequest struct {
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	EventDate       *time.Time `json:"event_date"`
	MaxParticipants *int       `json:"max_participants"`
	SpeakerName     *string    `json:"speaker_name"`
	SpeakerAvatar   *string    `json:"speaker_avatar"`
	EventType       string     `json:"event_type"`
}

// UpdateEventRequest 部分更新活动；Status 变更需满足单向流转
type UpdateEventRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	EventDate       *time.Time `json:"event_date"`
	Status          *string    `json:"status"`
	MaxParticipants *int       `json:"max_participants"`
	SpeakerName     *string    `json:"speaker_name"`
	SpeakerAvatar   *string    `json:"speaker_avatar"`
	EventType       *string    `json:"event_type"`
}

// EventStats 活动统计
type EventStats struct {
	EventID               uint64         `json:"event_id"`
	TotalParticipants     int            `json:"total_participants"`
	TotalResponses        int64          `json:"total_responses"`
	AverageQualityScore   float64        `json:"average_quality_score"`
	AverageSentimentScore float64        `json:"average_sentiment_score"`
	CompletionRate        float64        `json:"completion_rate"`
	TopParticipants       []RankingEntry `json:"top_participants"`
}

type EventService struct {
	events       repository.EventRepository
	participants repository.ParticipantRepository
	questions    repository.QuestionRepository
	responses    repository.ResponseRepository
	ranking      *RankingService
	notifier     interfaces.Notifier
	logger       *logrus.Logger
}

func NewEventService(
	events repository.EventRepository,
	participants repository.ParticipantRepository,
	questions repository.QuestionRepository,
	responses repository.ResponseRepository,
	ranking *RankingService,
	notifier interfaces.Notifier,
	logger *logrus.Logger,
) *EventService {
	return &EventService{
		events:       events,
		participants: participants,
		questions:    questions,
		responses:    responses,
		ranking:      ranking,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *EventService) List(ctx context.Context, status string) ([]*model.Event, error) {
	st := model.EventStatus(strings.ToLower(strings.TrimSpace(status)))
	if st != "" && !st.Valid() {
		return nil, Validation("Invalid status filter", "status must be one of upcoming, live, completed")
	}
	events, err := s.events.List(ctx, st)
	if err != nil {
		return nil, err
	}
	if err := s.attachCounts(ctx, events...); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *EventService) Get(ctx context.Context, id uint64) (*model.Event, error) {
	event, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Event with ID %d not found", id)
	}
	if err := s.attachCounts(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) attachCounts(ctx context.Context, events ...*model.Event) error {
	ids := make([]uint64, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	counts, err := s.events.CountParticipants(ctx, ids)
	if err != nil {
		return err
	}
	for _, e := range events {
		e.ParticipantCount = counts[e.ID]
	}
	return nil
}

func (s *EventService) Create(ctx context.Context, req CreateEventRequest) (*model.Event, error) {
	if strings.TrimSpace(req.Title) == "" || req.EventDate == nil || req.EventDate.IsZero() {
		return nil, Validation("Title and event_date are required", "title and event_date must be provided")
	}
	event := &model.Event{
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		EventDate:       req.EventDate.UTC(),
		Status:          model.EventStatusUpcoming,
		MaxParticipants: req.MaxParticipants,
		SpeakerName:     req.SpeakerName,
		SpeakerAvatar:   req.SpeakerAvatar,
		EventType:       req.EventType,
	}
	if event.EventType == "" {
		event.EventType = model.DefaultEventType
	}

	if calendarID, err := s.notifier.CreateCalendarEvent(ctx, event); err != nil {
		s.logger.WithError(err).Warn("创建日历事件失败")
	} else {
		event.GoogleCalendarID = &calendarID
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"event_id": event.ID, "title": event.Title}).Info("活动已创建")
	return event, nil
}

func (s *EventService) Update(ctx context.Context, id uint64, req UpdateEventRequest) (*model.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		next := model.EventStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		if !next.Valid() {
			return nil, Validation("Invalid status", "status must be one of upcoming, live, completed")
		}
		if next != event.Status {
			if !event.Status.CanTransitionTo(next) {
				return nil, InvalidTransition(string(event.Status), string(next))
			}
			event.Status = next
		}
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, Validation("Title must not be empty", "title")
		}
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.EventDate != nil {
		event.EventDate = req.EventDate.UTC()
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = req.MaxParticipants
	}
	if req.SpeakerName != nil {
		event.SpeakerName = req.SpeakerName
	}
	if req.SpeakerAvatar != nil {
		event.SpeakerAvatar = req.SpeakerAvatar
	}
	if req.EventType != nil && *req.EventType != "" {
		event.EventType = *req.EventType
	}

	if err := s.events.Save(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id uint64) error {
	n, err := s.events.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return NotFound("Event with ID %d not found", id)
	}
	s.ranking.Invalidate(ctx, id)
	return nil
}

func (s *EventService) transition(ctx context.Context, id uint64, next model.EventStatus) (*model.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.Status.CanTransitionTo(next) {
		return nil, InvalidTransition(string(event.Status), string(next))
	}
	event.Status = next
	if err := s.events.Save(ctx, event); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"event_id": id, "status": next}).Info("活动状态已变更")
	return event, nil
}

// Start upcoming → live，并发送 Slack 公告
func (s *EventService) Start(ctx context.Context, id uint64) (*model.Event, error) {
	event, err := s.transition(ctx, id, model.EventStatusLive)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.AnnounceEventStart(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_id", id).Warn("发送开场通知失败")
	}
	return event, nil
}

// Complete live → completed，并给有邮箱的参与者发送感谢邮件
func (s *EventService) Complete(ctx context.Context, id uint64) (*model.Event, error) {
	event, err := s.transition(ctx, id, model.EventStatusCompleted)
	if err != nil {
		return nil, err
	}
	participants, err := s.participants.ListByEvent(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("event_id", id).Warn("查询参与者失败，跳过感谢邮件")
		return event, nil
	}
	for _, p := range participants {
		if err := s.notifier.SendThankYou(ctx, event, p); err != nil {
			s.logger.WithError(err).WithField("participant_id", p.ID).Warn("发送感谢邮件失败")
		}
	}
	return event, nil
}

func (s *EventService) Stats(ctx context.Context, id uint64) (*EventStats, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	participants, err := s.participants.ListByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	questionCount, err := s.questions.CountByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	responseStats, err := s.responses.StatsByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	top, err := s.ranking.Rankings(ctx, id, DefaultRankingLimit)
	if err != nil {
		return nil, err
	}

	stats := &EventStats{
		EventID:               id,
		TotalParticipants:     len(participants),
		TotalResponses:        responseStats.Total,
		AverageQualityScore:   responseStats.AverageQuality,
		AverageSentimentScore: responseStats.AverageSentiment,
		TopParticipants:       top,
	}
	if questionCount > 0 && len(participants) > 0 {
		stats.CompletionRate = float64(responseStats.Total) / float64(questionCount*int64(len(participants))) * 100
	}
	return stats, nil
}

func (s *EventService) Rankings(ctx context.Context, id uint64, limit int) ([]RankingEntry, error) {
	if _, err := s.events.Get(ctx, id); err != nil {
		return nil, notFoundOr(err, "Event with ID %d not found", id)
	}
	return s.ranking.Rankings(ctx, id, limit)
}
