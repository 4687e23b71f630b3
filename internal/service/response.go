package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"EventHub/internal/analysis"
	"EventHub/internal/interfaces"
	"EventHub/internal/model"
	"EventHub/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const DefaultTopQualityLimit = 5

// CreateResponseRequest 提交回答
type CreateResponseRequest struct {
	QuestionID          uint64 `json:"question_id"`
	ParticipantID       uint64 `json:"participant_id"`
	Text                string `json:"text"`
	Rating              *int   `json:"rating"`
	IsQuickOption       bool   `json:"is_quick_option"`
	ResponseTimeSeconds *int   `json:"response_time_seconds"`
}

// RatingText 评分回答的展示文本
func RatingText(rating int) string {
	return fmt.Sprintf("⭐ %d de 5", rating)
}

type ResponseService struct {
	questions    repository.QuestionRepository
	participants repository.ParticipantRepository
	responses    repository.ResponseRepository
	analyzer     interfaces.Analyzer
	badges       *BadgeService
	ranking      *RankingService
	notifier     interfaces.Notifier
	scorer       Scorer
	logger       *logrus.Logger
}

func NewResponseService(
	questions repository.QuestionRepository,
	participants repository.ParticipantRepository,
	responses repository.ResponseRepository,
	analyzer interfaces.Analyzer,
	badges *BadgeService,
	ranking *RankingService,
	notifier interfaces.Notifier,
	scorer Scorer,
	logger *logrus.Logger,
) *ResponseService {
	return &ResponseService{
		questions:    questions,
		participants: participants,
		responses:    responses,
		analyzer:     analyzer,
		badges:       badges,
		ranking:      ranking,
		notifier:     notifier,
		scorer:       scorer,
		logger:       logger,
	}
}

func (s *ResponseService) List(ctx context.Context, filter repository.ResponseFilter) ([]*model.Response, error) {
	return s.responses.List(ctx, filter)
}

func (s *ResponseService) Get(ctx context.Context, id uint64) (*model.Response, error) {
	response, err := s.responses.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Response with ID %d not found", id)
	}
	return response, nil
}

// TopQuality 高质量回答（quality >= 0.7）
func (s *ResponseService) TopQuality(ctx context.Context, eventID uint64, limit int) ([]*model.Response, error) {
	if limit <= 0 {
		limit = DefaultTopQualityLimit
	}
	return s.responses.TopQuality(ctx, eventID, HighQualityThreshold, limit)
}

// Create 评分并保存回答。回答写入成功后，参与者聚合、徽章、排名与通知依次独立执行，
// 其中任一步失败只记录日志，不回滚已保存的回答。
func (s *ResponseService) Create(ctx context.Context, req CreateResponseRequest) (*model.Response, error) {
	if req.QuestionID == 0 || req.ParticipantID == 0 {
		return nil, Validation("question_id and participant_id are required", "missing required field")
	}
	question, err := s.questions.Get(ctx, req.QuestionID)
	if err != nil {
		return nil, notFoundOr(err, "Question not found")
	}
	participant, err := s.participants.Get(ctx, req.ParticipantID)
	if err != nil {
		return nil, notFoundOr(err, "Participant not found")
	}
	if participant.EventID != question.EventID {
		return nil, Validation("Question does not belong to the participant's event", "event mismatch")
	}

	if err := validateRating(question, req.Rating); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(req.Text)
	if text == "" && req.Rating != nil {
		text = RatingText(*req.Rating)
	}
	if text == "" {
		return nil, Validation("text is required", "text")
	}

	exists, err := s.responses.Exists(ctx, question.ID, participant.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, Conflict("Participant already responded to this question")
	}

	sentiment, err := s.analyzer.AnalyzeSentiment(ctx, text)
	if err != nil {
		s.logger.WithError(err).Warn("情绪分析失败，使用关键词分析")
		sentiment = analysis.KeywordSentiment(text)
	}
	quality, err := s.analyzer.QualityScore(ctx, text, question.Text)
	if err != nil {
		quality = analysis.Quality(text)
	}

	_, firstErr := s.responses.FirstForQuestion(ctx, question.ID)
	isFirst := errors.Is(firstErr, gorm.ErrRecordNotFound)

	points := s.scorer.Points(ScoreInput{
		Text:            text,
		IsQuickOption:   req.IsQuickOption,
		IsRating:        req.Rating != nil,
		Quality:         quality,
		Sentiment:       sentiment.Sentiment,
		IsFirstResponse: isFirst,
	})

	label := sentiment.Sentiment
	score := sentiment.Score
	response := &model.Response{
		QuestionID:          question.ID,
		ParticipantID:       participant.ID,
		Text:                text,
		Rating:              req.Rating,
		Sentiment:           &label,
		SentimentScore:      &score,
		QualityScore:        &quality,
		ResponseTimeSeconds: req.ResponseTimeSeconds,
		IsQuickOption:       req.IsQuickOption,
		PointsAwarded:       points,
	}
	if err := s.responses.Create(ctx, response); err != nil {
		if dup, checkErr := s.responses.Exists(ctx, question.ID, participant.ID); checkErr == nil && dup {
			return nil, Conflict("Participant already responded to this question")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"response_id":    response.ID,
		"participant_id": participant.ID,
		"question_id":    question.ID,
		"points":         points,
		"sentiment":      label,
		"quality":        quality,
	}).Info("回答已评分")

	s.afterResponse(ctx, participant, question, response)
	return response, nil
}

func validateRating(question *model.Question, rating *int) error {
	if question.QuestionType == model.QuestionRating {
		if rating == nil {
			return Validation("rating is required for rating questions", "rating")
		}
		if *rating < 1 || *rating > 5 {
			return Validation("rating must be between 1 and 5", "rating")
		}
		return nil
	}
	if rating != nil {
		return Validation("rating is only accepted for rating questions", "rating")
	}
	return nil
}

func (s *ResponseService) afterResponse(ctx context.Context, participant *model.Participant, question *model.Question, response *model.Response) {
	log := s.logger.WithFields(logrus.Fields{"participant_id": participant.ID, "response_id": response.ID})

	var sentimentScore float64
	if response.SentimentScore != nil {
		sentimentScore = *response.SentimentScore
	}
	if err := s.participants.ApplyResponse(ctx, participant.ID, repository.ResponseScore{
		Points:    response.PointsAwarded,
		Quality:   *response.QualityScore,
		Sentiment: sentimentScore,
		At:        time.Now().UTC(),
	}); err != nil {
		log.WithError(err).Warn("更新参与者积分失败")
	}

	fresh, err := s.participants.Get(ctx, participant.ID)
	if err != nil {
		log.WithError(err).Warn("读取参与者失败")
		fresh = participant
	}
	if _, err := s.badges.Check(ctx, fresh, response); err != nil {
		log.WithError(err).Warn("检查徽章失败")
	}
	if _, err := s.ranking.Recompute(ctx, participant.EventID); err != nil {
		log.WithError(err).Warn("重算排名失败")
	}

	if *response.QualityScore >= HighQualityThreshold && utf8.RuneCountInString(response.Text) > 50 {
		if err := s.notifier.HighlightResponse(ctx, fresh, question, response); err != nil {
			log.WithError(err).Warn("发送高质量回答通知失败")
		}
	}
}
