package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"EventHub/internal/interfaces"
	"EventHub/internal/model"
	"EventHub/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// CreateQuestionRequest 创建问题；Order 为空时追加到末尾
type CreateQuestionRequest struct {
	EventID       uint64   `json:"event_id"`
	Text          string   `json:"text"`
	QuestionType  string   `json:"question_type"`
	Order         *int     `json:"order"`
	Options       []string `json:"options"`
	IsAIGenerated bool     `json:"is_ai_generated"`
	AIContext     *string  `json:"ai_context"`
}

// GenerateQuestionRequest AI出题；给出 event_id 时可省略 context
type GenerateQuestionRequest struct {
	EventID           uint64   `json:"event_id"`
	Context           string   `json:"context"`
	PreviousQuestions []string `json:"previous_questions"`
	QuestionType      string   `json:"question_type"`
}

type QuestionService struct {
	events    repository.EventRepository
	questions repository.QuestionRepository
	generator interfaces.QuestionGenerator
	logger    *logrus.Logger
}

func NewQuestionService(events repository.EventRepository, questions repository.QuestionRepository, generator interfaces.QuestionGenerator, logger *logrus.Logger) *QuestionService {
	return &QuestionService{events: events, questions: questions, generator: generator, logger: logger}
}

func (s *QuestionService) List(ctx context.Context, eventID uint64) ([]*model.Question, error) {
	return s.questions.List(ctx, eventID)
}

func (s *QuestionService) Get(ctx context.Context, id uint64) (*model.Question, error) {
	question, err := s.questions.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Question with ID %d not found", id)
	}
	return question, nil
}

func (s *QuestionService) Create(ctx context.Context, req CreateQuestionRequest) (*model.Question, error) {
	if req.EventID == 0 || strings.TrimSpace(req.Text) == "" {
		return nil, Validation("event_id and text are required", "missing required field")
	}
	qType := model.QuestionType(req.QuestionType)
	if qType == "" {
		qType = model.QuestionFreeText
	}
	if !qType.Valid() {
		return nil, Validation("Invalid question_type", "question_type must be one of quick_options, rating, free_text")
	}

	options := make([]string, 0, len(req.Options))
	for _, o := range req.Options {
		if o = strings.TrimSpace(o); o != "" {
			options = append(options, o)
		}
	}
	if qType == model.QuestionQuickOptions && len(options) == 0 {
		return nil, Validation("quick_options questions require options", "options")
	}
	if qType != model.QuestionQuickOptions && len(options) > 0 {
		return nil, Validation("Only quick_options questions accept options", "options")
	}

	if _, err := s.events.Get(ctx, req.EventID); err != nil {
		return nil, notFoundOr(err, "Event not found")
	}

	order, err := s.resolveOrder(ctx, req.EventID, req.Order)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	question := &model.Question{
		EventID:       req.EventID,
		Text:          strings.TrimSpace(req.Text),
		QuestionType:  qType,
		Order:         order,
		IsAIGenerated: req.IsAIGenerated,
		AIContext:     req.AIContext,
		AskedAt:       &now,
	}
	if len(options) > 0 {
		raw, err := json.Marshal(options)
		if err != nil {
			return nil, err
		}
		question.Options = datatypes.JSON(raw)
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) resolveOrder(ctx context.Context, eventID uint64, requested *int) (int, error) {
	if requested == nil {
		return s.questions.NextOrder(ctx, eventID)
	}
	if *requested < 1 {
		return 0, Validation("order must be >= 1", "order")
	}
	existing, err := s.questions.List(ctx, eventID)
	if err != nil {
		return 0, err
	}
	for _, q := range existing {
		if q.Order == *requested {
			return 0, Validation(fmt.Sprintf("Order %d is already used in this event", *requested), "order")
		}
	}
	return *requested, nil
}

// Generate 生成问题但不落库
func (s *QuestionService) Generate(ctx context.Context, req GenerateQuestionRequest) (interfaces.GeneratedQuestion, error) {
	prompt := interfaces.QuestionPrompt{
		Context:           strings.TrimSpace(req.Context),
		PreviousQuestions: req.PreviousQuestions,
		QuestionType:      req.QuestionType,
	}
	if req.EventID != 0 {
		event, err := s.events.Get(ctx, req.EventID)
		if err != nil {
			return interfaces.GeneratedQuestion{}, notFoundOr(err, "Event not found")
		}
		if prompt.Context == "" {
			prompt.Context = event.Title
			if event.Description != nil && *event.Description != "" {
				prompt.Context += ": " + *event.Description
			}
		}
		if len(prompt.PreviousQuestions) == 0 {
			existing, err := s.questions.List(ctx, req.EventID)
			if err != nil {
				return interfaces.GeneratedQuestion{}, err
			}
			for _, q := range existing {
				prompt.PreviousQuestions = append(prompt.PreviousQuestions, q.Text)
			}
		}
	}
	if prompt.Context == "" {
		return interfaces.GeneratedQuestion{}, Validation("context or event_id is required", "context")
	}
	return s.generator.GenerateQuestion(ctx, prompt)
}

func (s *QuestionService) Delete(ctx context.Context, id uint64) error {
	n, err := s.questions.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return NotFound("Question with ID %d not found", id)
	}
	return nil
}

// QuestionOptions 解析问题的快捷选项
func QuestionOptions(q *model.Question) []string {
	if len(q.Options) == 0 {
		return nil
	}
	var options []string
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil
	}
	return options
}
