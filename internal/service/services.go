package service

import (
	"EventHub/internal/interfaces"
	"EventHub/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps 构建业务服务所需的外部依赖
type Deps struct {
	Analyzer  interfaces.Analyzer
	Generator interfaces.QuestionGenerator
	Notifier  interfaces.Notifier
	Cache     interfaces.RankingCache
	Scorer    Scorer
	Logger    *logrus.Logger
}

// Services 全部业务服务
type Services struct {
	Examples     *ExampleService
	Events       *EventService
	Participants *ParticipantService
	Questions    *QuestionService
	Responses    *ResponseService
	Messages     *MessageService
	Badges       *BadgeService
	Ranking      *RankingService
}

// New 基于同一个 gorm 连接创建仓储与服务
func New(db *gorm.DB, deps Deps) *Services {
	examples := repository.NewExampleRepository(db)
	events := repository.NewEventRepository(db)
	participants := repository.NewParticipantRepository(db)
	questions := repository.NewQuestionRepository(db)
	responses := repository.NewResponseRepository(db)
	messages := repository.NewMessageRepository(db)
	badges := repository.NewBadgeRepository(db)

	ranking := NewRankingService(participants, badges, deps.Cache, deps.Logger)
	badgeSvc := NewBadgeService(badges, responses, questions, deps.Logger)

	return &Services{
		Examples:     NewExampleService(examples, deps.Logger),
		Events:       NewEventService(events, participants, questions, responses, ranking, deps.Notifier, deps.Logger),
		Participants: NewParticipantService(events, participants, questions, messages, badges, ranking, deps.Logger),
		Questions:    NewQuestionService(events, questions, deps.Generator, deps.Logger),
		Responses:    NewResponseService(questions, participants, responses, deps.Analyzer, badgeSvc, ranking, deps.Notifier, deps.Scorer, deps.Logger),
		Messages:     NewMessageService(events, participants, messages, deps.Logger),
		Badges:       badgeSvc,
		Ranking:      ranking,
	}
}
