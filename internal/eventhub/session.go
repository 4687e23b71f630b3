// Package eventhub 参与者端的答题引擎：按顺序推进问题、提交回答并维护聊天记录。
package eventhub

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"EventHub/internal/client"
	"EventHub/internal/model"
	"EventHub/internal/repository"
	"EventHub/internal/service"

	"github.com/sirupsen/logrus"
)

// Backend 引擎依赖的后端能力，*client.Client 即可满足
type Backend interface {
	GetEvent(ctx context.Context, id uint64) (*model.Event, error)
	GetParticipant(ctx context.Context, id uint64) (*model.Participant, error)
	ListQuestions(ctx context.Context, eventID uint64) ([]*model.Question, error)
	ListResponses(ctx context.Context, filter repository.ResponseFilter) ([]*model.Response, error)
	CreateResponse(ctx context.Context, req service.CreateResponseRequest) (*model.Response, error)
	ListMessages(ctx context.Context, eventID uint64, limit int) ([]*model.Message, error)
	CreateMessage(ctx context.Context, req service.CreateMessageRequest) (*model.Message, error)
	Rankings(ctx context.Context, eventID uint64, limit int) ([]service.RankingEntry, error)
	ResetParticipant(ctx context.Context, id uint64) (*model.Participant, error)
}

var _ Backend = (*client.Client)(nil)

var ErrParticipantEvent = errors.New("participant does not belong to event")

// Options 引擎参数
type Options struct {
	BotDelay     time.Duration // 机器人下一条消息前的展示延迟
	RankingLimit int
	MessageLimit int
	Logger       *logrus.Logger
}

func (o Options) withDefaults() Options {
	if o.RankingLimit <= 0 {
		o.RankingLimit = service.DefaultRankingLimit
	}
	if o.MessageLimit <= 0 {
		o.MessageLimit = service.DefaultMessageLimit
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

// Outcome 一次作答的结果；Skipped 表示未发出任何请求
type Outcome struct {
	Skipped       bool
	Question      *model.Question
	Response      *model.Response
	PointsAwarded int
	Sentiment     *model.Sentiment
	Participant   *model.Participant
	Completed     bool
	BotMessage    *model.Message
}

// Session 一个参与者在一个活动中的答题会话
type Session struct {
	backend Backend
	opts    Options
	chat    *ChatLog

	// sending 同一时间只允许一个作答请求在途
	sending atomic.Bool

	mu          sync.Mutex
	event       *model.Event
	participant *model.Participant
	questions   []*model.Question
	index       int
	rankings    []service.RankingEntry
}

// Load 加载活动、问题、参与者与聊天记录，当前题为第一道未作答的问题
func Load(ctx context.Context, backend Backend, eventID, participantID uint64, opts Options) (*Session, error) {
	s := &Session{backend: backend, opts: opts.withDefaults(), chat: NewChatLog()}
	if err := s.load(ctx, eventID, participantID); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) load(ctx context.Context, eventID, participantID uint64) error {
	event, err := s.backend.GetEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("加载活动失败: %w", err)
	}
	participant, err := s.backend.GetParticipant(ctx, participantID)
	if err != nil {
		return fmt.Errorf("加载参与者失败: %w", err)
	}
	if participant.EventID != event.ID {
		return fmt.Errorf("%w: participant %d, event %d", ErrParticipantEvent, participant.ID, event.ID)
	}
	questions, err := s.backend.ListQuestions(ctx, eventID)
	if err != nil {
		return fmt.Errorf("加载问题失败: %w", err)
	}
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Order < questions[j].Order })

	responses, err := s.backend.ListResponses(ctx, repository.ResponseFilter{ParticipantID: participantID})
	if err != nil {
		return fmt.Errorf("加载回答失败: %w", err)
	}
	answered := make(map[uint64]bool, len(responses))
	for _, r := range responses {
		answered[r.QuestionID] = true
	}
	index := len(questions)
	for i, q := range questions {
		if !answered[q.ID] {
			index = i
			break
		}
	}

	messages, err := s.backend.ListMessages(ctx, eventID, s.opts.MessageLimit)
	if err != nil {
		return fmt.Errorf("加载聊天记录失败: %w", err)
	}
	rankings, err := s.backend.Rankings(ctx, eventID, s.opts.RankingLimit)
	if err != nil {
		s.opts.Logger.WithError(err).WithField("event_id", eventID).Warn("加载排名失败")
	}

	s.mu.Lock()
	s.event = event
	s.participant = participant
	s.questions = questions
	s.index = index
	if rankings != nil {
		s.rankings = rankings
	}
	s.mu.Unlock()
	s.chat.Replace(messages)
	return nil
}

// SubmitAnswer 提交当前问题的回答。会话忙或已完成时直接返回 Skipped。
//
// 题号在请求发出前就已前移；请求失败时不会回退，只重新同步聊天记录，
// 因此失败后题号可能领先于已保存的回答。
func (s *Session) SubmitAnswer(ctx context.Context, text string, isQuickOption bool) (Outcome, error) {
	return s.submit(ctx, text, isQuickOption, nil)
}

// Rate 以 "⭐ n de 5" 的文本提交评分
func (s *Session) Rate(ctx context.Context, rating int) (Outcome, error) {
	if rating < 1 || rating > 5 {
		return Outcome{}, fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}
	return s.submit(ctx, service.RatingText(rating), false, &rating)
}

func (s *Session) submit(ctx context.Context, text string, isQuickOption bool, rating *int) (Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{Skipped: true}, nil
	}
	if !s.sending.CompareAndSwap(false, true) {
		return Outcome{Skipped: true}, nil
	}
	defer s.sending.Store(false)

	s.mu.Lock()
	if s.participant == nil || s.index >= len(s.questions) {
		s.mu.Unlock()
		return Outcome{Skipped: true}, nil
	}
	question := s.questions[s.index]
	s.index++
	next, total := s.index, len(s.questions)
	var nextQuestion *model.Question
	if next < total {
		nextQuestion = s.questions[next]
	}
	participant := *s.participant
	eventID := s.event.ID
	s.mu.Unlock()

	log := s.opts.Logger.WithFields(logrus.Fields{"participant_id": participant.ID, "question_id": question.ID})
	name := participant.Name
	localID := s.chat.AppendPending(model.Message{
		EventID:           eventID,
		ParticipantID:     &participant.ID,
		Text:              text,
		MessageType:       model.MessageUser,
		CreatedAt:         time.Now().UTC(),
		ParticipantName:   &name,
		ParticipantAvatar: participant.AvatarURL,
	})

	response, err := s.backend.CreateResponse(ctx, service.CreateResponseRequest{
		QuestionID:    question.ID,
		ParticipantID: participant.ID,
		Text:          text,
		Rating:        rating,
		IsQuickOption: isQuickOption,
	})
	if err != nil {
		return Outcome{Question: question}, s.fail(ctx, localID, eventID, fmt.Errorf("提交回答失败: %w", err))
	}
	pid := participant.ID
	if _, err := s.backend.CreateMessage(ctx, service.CreateMessageRequest{
		EventID:       eventID,
		ParticipantID: &pid,
		Text:          text,
		MessageType:   string(model.MessageUser),
	}); err != nil {
		out := Outcome{Question: question, Response: response, PointsAwarded: response.PointsAwarded}
		return out, s.fail(ctx, localID, eventID, fmt.Errorf("保存消息失败: %w", err))
	}
	s.chat.Confirm(localID)

	out := Outcome{
		Question:      question,
		Response:      response,
		PointsAwarded: response.PointsAwarded,
		Sentiment:     response.Sentiment,
		Completed:     next >= total,
	}

	// 读回服务端计算的积分与名次；失败时沿用旧值
	if fresh, err := s.backend.GetParticipant(ctx, participant.ID); err != nil {
		log.WithError(err).Warn("刷新参与者失败")
	} else {
		participant = *fresh
		s.mu.Lock()
		s.participant = fresh
		s.mu.Unlock()
	}
	if rankings, err := s.backend.Rankings(ctx, eventID, s.opts.RankingLimit); err != nil {
		log.WithError(err).Warn("刷新排名失败")
	} else {
		s.mu.Lock()
		s.rankings = rankings
		s.mu.Unlock()
	}
	out.Participant = &participant

	if err := sleep(ctx, s.opts.BotDelay); err != nil {
		return out, err
	}

	botText := CompletionMessage(response.PointsAwarded, participant)
	if nextQuestion != nil {
		botText = service.QuestionPrompt(next+1, total, nextQuestion.Text)
	}
	botID := s.chat.AppendPending(model.Message{
		EventID:     eventID,
		Text:        botText,
		MessageType: model.MessageBot,
		CreatedAt:   time.Now().UTC(),
	})
	bot, err := s.backend.CreateMessage(ctx, service.CreateMessageRequest{
		EventID:     eventID,
		Text:        botText,
		MessageType: string(model.MessageBot),
	})
	if err != nil {
		s.chat.MarkFailed(botID)
		return out, fmt.Errorf("保存机器人消息失败: %w", err)
	}
	s.chat.Confirm(botID)
	out.BotMessage = bot

	log.WithFields(logrus.Fields{"points": out.PointsAwarded, "completed": out.Completed}).Info("回答已提交")
	return out, nil
}

// fail 标记本地消息失败并以服务端聊天记录为准重新同步
func (s *Session) fail(ctx context.Context, localID string, eventID uint64, cause error) error {
	s.chat.MarkFailed(localID)
	messages, err := s.backend.ListMessages(ctx, eventID, s.opts.MessageLimit)
	if err != nil {
		s.opts.Logger.WithError(err).WithField("event_id", eventID).Warn("重新同步聊天记录失败")
		return cause
	}
	s.chat.Replace(messages)
	return cause
}

// Reset 经 confirm 确认后清空参与者进度，并从第一题重新加载。未确认或会话忙时返回 false。
func (s *Session) Reset(ctx context.Context, confirm func() bool) (bool, error) {
	if confirm == nil || !confirm() {
		return false, nil
	}
	if !s.sending.CompareAndSwap(false, true) {
		return false, nil
	}
	defer s.sending.Store(false)

	s.mu.Lock()
	eventID, participantID := s.event.ID, s.participant.ID
	s.mu.Unlock()

	if _, err := s.backend.ResetParticipant(ctx, participantID); err != nil {
		return false, fmt.Errorf("重置进度失败: %w", err)
	}
	if err := s.load(ctx, eventID, participantID); err != nil {
		return true, err
	}
	s.opts.Logger.WithField("participant_id", participantID).Info("进度已重置")
	return true, nil
}

func (s *Session) Event() model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.event
}

func (s *Session) Participant() model.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.participant
}

func (s *Session) Questions() []*model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Index 当前问题下标；等于问题数时表示已完成
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// CurrentQuestion 已完成时返回 nil
func (s *Session) CurrentQuestion() *model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.questions) {
		return nil
	}
	return s.questions[s.index]
}

func (s *Session) Completed() bool {
	return s.CurrentQuestion() == nil
}

func (s *Session) Sending() bool {
	return s.sending.Load()
}

func (s *Session) Rankings() []service.RankingEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.RankingEntry, len(s.rankings))
	copy(out, s.rankings)
	return out
}

func (s *Session) Chat() *ChatLog {
	return s.chat
}

// Affordance 当前聊天记录下可用的作答交互
func (s *Session) Affordance() Affordance {
	return s.chat.Affordance(s.CurrentQuestion())
}

// CompletionMessage 最后一题作答后的总结消息
func CompletionMessage(pointsAwarded int, p model.Participant) string {
	rank := "TBD"
	if p.RankPosition != nil && *p.RankPosition > 0 {
		rank = strconv.Itoa(*p.RankPosition)
	}
	return fmt.Sprintf("🎊 ¡Encuesta completada! Muchas gracias por tu feedback.<br/><br/>"+
		"<strong>Resumen:</strong><br/>"+
		"• Ganaste %d puntos en esta respuesta<br/>"+
		"• Total de puntos: %d<br/>"+
		"• Tu posición en el ranking: #%s<br/><br/>"+
		"Tu opinión nos ayuda a mejorar. ¡Nos vemos en el próximo evento! 🚀", pointsAwarded, p.Points, rank)
}

// sleep 可被 ctx 取消的等待
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
