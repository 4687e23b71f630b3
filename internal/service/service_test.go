package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"EventHub/internal/adapter/gemini"
	"EventHub/internal/analysis"
	"EventHub/internal/config"
	"EventHub/internal/model"
	"EventHub/internal/notify"
	"EventHub/internal/repository"
	"EventHub/internal/testutil"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryCache 记录写入次数的内存排名缓存
type memoryCache struct {
	mu   sync.Mutex
	data map[uint64][]byte
	sets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[uint64][]byte)}
}

func (c *memoryCache) Get(_ context.Context, id uint64) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[id]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, id uint64, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[id] = payload
	c.sets++
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, id uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, id)
	return nil
}

type fixture struct {
	svc   *Services
	db    *gorm.DB
	cache *memoryCache
	hook  *test.Hook
}

func newFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	cache := newMemoryCache()
	svc := New(db, Deps{
		Analyzer:  analysis.NewHeuristic(),
		Generator: gemini.NewClient(config.GeminiConfig{}, logger),
		Notifier:  notify.NewLogNotifier(logger),
		Cache:     cache,
		Logger:    logger,
	})
	require.NoError(t, svc.Badges.Seed(context.Background()))
	return &fixture{svc: svc, db: db, cache: cache, hook: hook}
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

var eventDate = time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

func (f *fixture) event(t *testing.T, title string, at time.Time, questions ...string) (*model.Event, []*model.Question) {
	t.Helper()
	ctx := context.Background()
	event, err := f.svc.Events.Create(ctx, CreateEventRequest{Title: title, EventDate: &at})
	require.NoError(t, err)

	var created []*model.Question
	for _, text := range questions {
		q, err := f.svc.Questions.Create(ctx, CreateQuestionRequest{
			EventID:      event.ID,
			Text:         text,
			QuestionType: string(model.QuestionQuickOptions),
			Options:      []string{"Yes", "No"},
		})
		require.NoError(t, err)
		created = append(created, q)
	}
	return event, created
}

func TestParticipationScenario(t *testing.T) {
	testutil.ForEachBackend(t, func(t *testing.T, db *gorm.DB) {
		f := newFixture(t, db)
		ctx := context.Background()
		event, questions := f.event(t, "Tech Night", eventDate, "Q1", "Q2", "Q3")
		assert.Equal(t, model.EventStatusUpcoming, event.Status)
		require.NotNil(t, event.GoogleCalendarID)

		p, created, err := f.svc.Participants.Join(ctx, JoinRequest{EventID: event.ID, UserID: "ana", Name: "Ana"})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, 1, p.Streak)
		require.NotNil(t, p.RankPosition)
		assert.Equal(t, 1, *p.RankPosition)

		msgs, err := f.svc.Messages.List(ctx, event.ID, 0)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, WelcomeMessage, msgs[0].Text)
		assert.Contains(t, msgs[1].Text, "Pregunta 1 de 3")

		again, created, err := f.svc.Participants.Join(ctx, JoinRequest{EventID: event.ID, UserID: "ana", Name: "Ana"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, p.ID, again.ID)
		msgs, err = f.svc.Messages.List(ctx, event.ID, 0)
		require.NoError(t, err)
		assert.Len(t, msgs, 2, "initial messages are written once")

		r1, err := f.svc.Responses.Create(ctx, CreateResponseRequest{QuestionID: questions[0].ID, ParticipantID: p.ID, Text: "Yes", IsQuickOption: true})
		require.NoError(t, err)
		assert.Equal(t, 10, r1.PointsAwarded)
		require.NotNil(t, r1.Sentiment)
		assert.Equal(t, model.SentimentNeutral, *r1.Sentiment)

		p, err = f.svc.Participants.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, p.Points)
		assert.Equal(t, 1, p.ResponsesCount)

		_, err = f.svc.Responses.Create(ctx, CreateResponseRequest{QuestionID: questions[0].ID, ParticipantID: p.ID, Text: "No", IsQuickOption: true})
		assert.ErrorIs(t, err, ErrConflict)

		total := r1.PointsAwarded
		for _, q := range questions[1:] {
			r, err := f.svc.Responses.Create(ctx, CreateResponseRequest{QuestionID: q.ID, ParticipantID: p.ID, Text: "Sí", IsQuickOption: true, ResponseTimeSeconds: intPtr(4)})
			require.NoError(t, err)
			assert.Equal(t, 20, r.PointsAwarded, "quick option + positive sentiment")
			total += r.PointsAwarded
		}

		p, err = f.svc.Participants.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, total, p.Points)
		assert.Equal(t, 3, p.ResponsesCount)

		earned, err := f.svc.Participants.Badges(ctx, p.ID)
		require.NoError(t, err)
		names := map[string]bool{}
		for _, pb := range earned {
			require.NotNil(t, pb.Badge)
			names[pb.Badge.Name] = true
		}
		assert.True(t, names["first_voice"])
		assert.True(t, names["speed_demon"])
		assert.True(t, names["perfectionist"])
		assert.False(t, names["community_leader"])

		rankings, err := f.svc.Events.Rankings(ctx, event.ID, 10)
		require.NoError(t, err)
		require.Len(t, rankings, 1)
		assert.Equal(t, total, rankings[0].Participant.Points)
		assert.Len(t, rankings[0].Badges, len(earned))

		stats, err := f.svc.Events.Stats(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalParticipants)
		assert.Equal(t, int64(3), stats.TotalResponses)
		assert.InDelta(t, 100.0, stats.CompletionRate, 1e-9)
		require.Len(t, stats.TopParticipants, 1)
	})
}

func TestResponseValidation(t *testing.T) {
	testutil.ForEachBackend(t, func(t *testing.T, db *gorm.DB) {
		f := newFixture(t, db)
		ctx := context.Background()
		event, questions := f.event(t, "E", eventDate, "Q1")
		_, otherQuestions := f.event(t, "Other", eventDate, "OQ")

		rating, err := f.svc.Questions.Create(ctx, CreateQuestionRequest{EventID: event.ID, Text: "¿Cómo estuvo?", QuestionType: "rating"})
		require.NoError(t, err)
		assert.Equal(t, 2, rating.Order)

		p, _, err := f.svc.Participants.Join(ctx, JoinRequest{EventID: event.ID, UserID: "u", Name: "U"})
		require.NoError(t, err)

		_, err = f.svc.Responses.Create(ctx, CreateResponseRequest{QuestionID: 9999, ParticipantID: p.ID, Text: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = f.svc.Responses.Create(ctx, CreateResponseRequest{QuestionID: questions[0].ID, ParticipantID: 9999, Text: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = f.svc.Responses.Create(ctx, CreateResponseRequest{QuestionID: otherQuestions[0].ID, ParticipantID: p.ID, Text: "x"})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = f.svc.Responses.Create(ctx, CreateResponseRequest{QuestionID: questions[0].ID, ParticipantID: p.ID, Text: "  "})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = f.svc.Responses.Create(ctx, CreateResponseRequest{QuestionID: questions[0].ID, ParticipantID: p.ID, Text: "Yes", Rating: intPtr(3)})
		assert.ErrorIs(t, err, ErrValidation, "rating only on rating questions")
		_, err = f.svc.Responses.Create(ctx, CreateResponseRequest{QuestionID: rating.ID, ParticipantID: p.ID, Text: "⭐ 6 de 5", Rating: intPtr(6)})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = f.svc.Responses.Create(ctx, CreateResponseRequest{QuestionID: rating.ID, ParticipantID: p.ID, Text: "sin rating"})
		assert.ErrorIs(t, err, ErrValidation)

		r, err := f.svc.Responses.Create(ctx, CreateResponseRequest{QuestionID: rating.ID, ParticipantID: p.ID, Rating: intPtr(4)})
		require.NoError(t, err)
		assert.Equal(t, RatingText(4), r.Text)
		assert.Equal(t, PointsRating, r.PointsAwarded)
	})
}

func TestResetIsIdempotent(t *testing.T) {
	testutil.ForEachBackend(t, func(t *testing.T, db *gorm.DB) {
		f := newFixture(t, db)
		ctx := context.Background()
		event, questions := f.event(t, "E", eventDate, "Q1", "Q2", "Q3")
		p, _, err := f.svc.Participants.Join(ctx, JoinRequest{EventID: event.ID, UserID: "u", Name: "U"})
		require.NoError(t, err)

		for _, q := range questions {
			_, err := f.svc.Responses.Create(ctx, CreateResponseRequest{QuestionID: q.ID, ParticipantID: p.ID, Text: "Yes", IsQuickOption: true})
			require.NoError(t, err)
		}
		require.NoError(t, repository.NewParticipantRepository(db).ApplyResponse(ctx, p.ID, repository.ResponseScore{Points: 470}))
		p, err = f.svc.Participants.Get(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, 500, p.Points)

		for i := 0; i < 2; i++ {
			reset, err := f.svc.Participants.Reset(ctx, p.ID)
			require.NoError(t, err)
			assert.Zero(t, reset.Points)
			assert.Zero(t, reset.Streak)
			assert.Zero(t, reset.ResponsesCount)

			responses, err := f.svc.Responses.List(ctx, repository.ResponseFilter{ParticipantID: p.ID})
			require.NoError(t, err)
			assert.Empty(t, responses)
		}

		earned, err := f.svc.Participants.Badges(ctx, p.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, earned, "badges survive reset")

		_, err = f.svc.Participants.Reset(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRankingRecomputeAndCache(t *testing.T) {
	testutil.ForEachBackend(t, func(t *testing.T, db *gorm.DB) {
		f := newFixture(t, db)
		ctx := context.Background()
		event, questions := f.event(t, "E", eventDate, "Q1")

		first, _, err := f.svc.Participants.Join(ctx, JoinRequest{EventID: event.ID, UserID: "a", Name: "A"})
		require.NoError(t, err)
		second, _, err := f.svc.Participants.Join(ctx, JoinRequest{EventID: event.ID, UserID: "b", Name: "B"})
		require.NoError(t, err)

		rankings, err := f.svc.Events.Rankings(ctx, event.ID, 0)
		require.NoError(t, err)
		require.Len(t, rankings, 2)
		assert.Equal(t, first.ID, rankings[0].Participant.ID, "tie broken by join time")

		_, err = f.svc.Responses.Create(ctx, CreateResponseRequest{QuestionID: questions[0].ID, ParticipantID: second.ID, Text: "Yes", IsQuickOption: true})
		require.NoError(t, err)

		payload, ok, err := f.cache.Get(ctx, event.ID)
		require.NoError(t, err)
		require.True(t, ok)
		var cached []RankingEntry
		require.NoError(t, json.Unmarshal(payload, &cached))
		assert.Equal(t, second.ID, cached[0].Participant.ID)

		rankings, err = f.svc.Events.Rankings(ctx, event.ID, 1)
		require.NoError(t, err)
		require.Len(t, rankings, 1)
		assert.Equal(t, second.ID, rankings[0].Participant.ID)

		stored, err := f.svc.Participants.Get(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.RankPosition)
		assert.Equal(t, 2, *stored.RankPosition)

		require.NoError(t, f.svc.Events.Delete(ctx, event.ID))
		_, ok, _ = f.cache.Get(ctx, event.ID)
		assert.False(t, ok)

		_, err = f.svc.Events.Rankings(ctx, event.ID, 10)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestEventLifecycle(t *testing.T) {
	testutil.ForEachBackend(t, func(t *testing.T, db *gorm.DB) {
		f := newFixture(t, db)
		ctx := context.Background()
		event, _ := f.event(t, "E", eventDate)
		email := "ana@example.com"
		_, _, err := f.svc.Participants.Join(ctx, JoinRequest{EventID: event.ID, UserID: "ana", Name: "Ana", Email: &email})
		require.NoError(t, err)

		_, err = f.svc.Events.Complete(ctx, event.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		live, err := f.svc.Events.Start(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, model.EventStatusLive, live.Status)

		_, err = f.svc.Events.Start(ctx, event.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		_, err = f.svc.Events.Update(ctx, event.ID, UpdateEventRequest{Status: strPtr("upcoming")})
		assert.ErrorIs(t, err, ErrInvalidTransition)

		f.hook.Reset()
		done, err := f.svc.Events.Complete(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, model.EventStatusCompleted, done.Status)
		var mailed bool
		for _, e := range f.hook.AllEntries() {
			if e.Data["integration"] == "email" && e.Data["to"] == email {
				mailed = true
			}
		}
		assert.True(t, mailed)

		updated, err := f.svc.Events.Update(ctx, event.ID, UpdateEventRequest{Title: strPtr("Renamed"), Status: strPtr("completed")})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, int64(1), updated.ParticipantCount)

		_, err = f.svc.Events.List(ctx, "bogus")
		assert.ErrorIs(t, err, ErrValidation)
		completed, err := f.svc.Events.List(ctx, "completed")
		require.NoError(t, err)
		require.Len(t, completed, 1)
		assert.Equal(t, int64(1), completed[0].ParticipantCount)

		_, err = f.svc.Events.Create(ctx, CreateEventRequest{Title: "no date"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestJoinStreakAndStats(t *testing.T) {
	testutil.ForEachBackend(t, func(t *testing.T, db *gorm.DB) {
		f := newFixture(t, db)
		ctx := context.Background()
		e1, _ := f.event(t, "E1", eventDate)
		e2, _ := f.event(t, "E2", eventDate.Add(7*24*time.Hour))
		e3, _ := f.event(t, "E3", eventDate.Add(14*24*time.Hour))
		f.event(t, "E0", eventDate.Add(-7*24*time.Hour))

		for _, e := range []*model.Event{e1, e2} {
			_, _, err := f.svc.Participants.Join(ctx, JoinRequest{EventID: e.ID, UserID: "ana", Name: "Ana"})
			require.NoError(t, err)
		}
		p3, _, err := f.svc.Participants.Join(ctx, JoinRequest{EventID: e3.ID, UserID: "ana", Name: "Ana"})
		require.NoError(t, err)
		assert.Equal(t, 3, p3.Streak, "E0 was missed, so the streak stops at E1")

		_, _, err = f.svc.Participants.Join(ctx, JoinRequest{EventID: 9999, UserID: "ana", Name: "Ana"})
		assert.ErrorIs(t, err, ErrNotFound)
		_, _, err = f.svc.Participants.Join(ctx, JoinRequest{EventID: e1.ID, Name: "Ana"})
		assert.ErrorIs(t, err, ErrValidation)

		stats, err := f.svc.Participants.Stats(ctx, p3.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalEvents)
		assert.Equal(t, "ana", stats.UserID)
		require.NotNil(t, stats.BestRank)
		assert.Equal(t, 1, *stats.BestRank)
	})
}

func TestQuestionsAndMessages(t *testing.T) {
	testutil.ForEachBackend(t, func(t *testing.T, db *gorm.DB) {
		f := newFixture(t, db)
		ctx := context.Background()
		event, questions := f.event(t, "AI Night", eventDate, "Q1")
		assert.Equal(t, []string{"Yes", "No"}, QuestionOptions(questions[0]))
		require.NotNil(t, questions[0].AskedAt)

		_, err := f.svc.Questions.Create(ctx, CreateQuestionRequest{EventID: event.ID, Text: "x", QuestionType: "quick_options"})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = f.svc.Questions.Create(ctx, CreateQuestionRequest{EventID: event.ID, Text: "x", QuestionType: "free_text", Order: intPtr(1)})
		assert.ErrorIs(t, err, ErrValidation, "order already used")
		_, err = f.svc.Questions.Create(ctx, CreateQuestionRequest{EventID: 9999, Text: "x"})
		assert.ErrorIs(t, err, ErrNotFound)

		generated, err := f.svc.Questions.Generate(ctx, GenerateQuestionRequest{EventID: event.ID})
		require.NoError(t, err)
		assert.Equal(t, gemini.FallbackQuestion, generated.Text)
		_, err = f.svc.Questions.Generate(ctx, GenerateQuestionRequest{})
		assert.ErrorIs(t, err, ErrValidation)
		all, err := f.svc.Questions.List(ctx, event.ID)
		require.NoError(t, err)
		assert.Len(t, all, 1, "generate does not persist")

		require.NoError(t, f.svc.Questions.Delete(ctx, questions[0].ID))
		assert.ErrorIs(t, f.svc.Questions.Delete(ctx, questions[0].ID), ErrNotFound)

		p, _, err := f.svc.Participants.Join(ctx, JoinRequest{EventID: event.ID, UserID: "u", Name: "Uma", AvatarURL: strPtr("https://img/u.png")})
		require.NoError(t, err)

		_, err = f.svc.Messages.List(ctx, 0, 10)
		assert.ErrorIs(t, err, ErrValidation)
		_, err = f.svc.Messages.Create(ctx, CreateMessageRequest{EventID: 9999, Text: "hola"})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = f.svc.Messages.Create(ctx, CreateMessageRequest{EventID: event.ID, Text: "hola", MessageType: "user"})
		assert.ErrorIs(t, err, ErrValidation)

		pid := p.ID
		m, err := f.svc.Messages.Create(ctx, CreateMessageRequest{EventID: event.ID, ParticipantID: &pid, Text: "hola"})
		require.NoError(t, err)
		assert.Equal(t, model.MessageUser, m.MessageType)

		list, err := f.svc.Messages.List(ctx, event.ID, 0)
		require.NoError(t, err)
		last := list[len(list)-1]
		require.NotNil(t, last.ParticipantName)
		assert.Equal(t, "Uma", *last.ParticipantName)
		assert.Equal(t, "https://img/u.png", *last.ParticipantAvatar)

		require.NoError(t, f.svc.Messages.Delete(ctx, m.ID))
		assert.ErrorIs(t, f.svc.Messages.Delete(ctx, m.ID), ErrNotFound)
	})
}

func TestTopQualityAndHighlight(t *testing.T) {
	testutil.ForEachBackend(t, func(t *testing.T, db *gorm.DB) {
		f := newFixture(t, db)
		ctx := context.Background()
		event, _ := f.event(t, "E", eventDate)
		q, err := f.svc.Questions.Create(ctx, CreateQuestionRequest{EventID: event.ID, Text: "¿Qué aprendiste?"})
		require.NoError(t, err)
		p, _, err := f.svc.Participants.Join(ctx, JoinRequest{EventID: event.ID, UserID: "u", Name: "U"})
		require.NoError(t, err)

		long := strings.Repeat("aprendí muchísimo sobre despliegues ", 4)
		f.hook.Reset()
		r, err := f.svc.Responses.Create(ctx, CreateResponseRequest{QuestionID: q.ID, ParticipantID: p.ID, Text: long})
		require.NoError(t, err)
		require.NotNil(t, r.QualityScore)
		assert.GreaterOrEqual(t, *r.QualityScore, HighQualityThreshold)
		assert.Equal(t, PointsLongText+PointsQualityBonus, r.PointsAwarded)

		var highlighted bool
		for _, e := range f.hook.AllEntries() {
			if e.Data["integration"] == "slack" && e.Data["question_id"] == q.ID {
				highlighted = true
			}
		}
		assert.True(t, highlighted)

		top, err := f.svc.Responses.TopQuality(ctx, event.ID, 0)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, r.ID, top[0].ID)
	})
}

func TestExampleService(t *testing.T) {
	testutil.ForEachBackend(t, func(t *testing.T, db *gorm.DB) {
		f := newFixture(t, db)
		ctx := context.Background()

		_, err := f.svc.Examples.Create(ctx, ExampleInput{Name: strPtr("n")})
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "Name and title are required", err.(*Error).Message)

		created, err := f.svc.Examples.Create(ctx, ExampleInput{Name: strPtr("n"), Title: strPtr("t")})
		require.NoError(t, err)
		assert.True(t, created.IsActive)
		assert.False(t, created.EntryDate.IsZero())

		got, err := f.svc.Examples.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "n", got.Name)
		assert.Equal(t, "t", got.Title)
		assert.True(t, got.IsActive)

		updated, err := f.svc.Examples.Update(ctx, created.ID, ExampleInput{Title: strPtr("t2"), IsActive: new(bool)})
		require.NoError(t, err)
		assert.Equal(t, "n", updated.Name, "partial update keeps name")
		assert.Equal(t, "t2", updated.Title)
		assert.False(t, updated.IsActive)

		require.NoError(t, f.svc.Examples.Delete(ctx, created.ID))
		err = f.svc.Examples.Delete(ctx, created.ID)
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, fmt.Sprintf("Example with ID %d not found", created.ID), err.Error())
	})
}
