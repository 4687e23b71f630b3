package eventhub

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"EventHub/internal/adapter/gemini"
	"EventHub/internal/analysis"
	"EventHub/internal/api"
	"EventHub/internal/cache"
	"EventHub/internal/client"
	"EventHub/internal/config"
	"EventHub/internal/model"
	"EventHub/internal/notify"
	"EventHub/internal/repository"
	"EventHub/internal/service"
	"EventHub/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipationAgainstServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()
	db := testutil.OpenSQLite(t)
	svc := service.New(db, service.Deps{
		Analyzer:  analysis.NewHeuristic(),
		Generator: gemini.NewClient(config.GeminiConfig{}, logger),
		Notifier:  notify.NewLogNotifier(logger),
		Cache:     cache.Noop{},
		Logger:    logger,
	})
	ctx := context.Background()
	require.NoError(t, svc.Badges.Seed(ctx))
	ts := httptest.NewServer(api.NewRouter(db, svc, logger, config.ServerConfig{Mode: gin.TestMode}))
	t.Cleanup(ts.Close)
	c := client.New(ts.URL, ts.Client())

	date := time.Now().UTC().Truncate(time.Second)
	event, err := c.CreateEvent(ctx, service.CreateEventRequest{Title: "Tech Night", EventDate: &date})
	require.NoError(t, err)
	for _, text := range []string{"¿Te gustó la charla?", "¿Volverías?", "¿Lo recomendarías?"} {
		_, err := c.CreateQuestion(ctx, service.CreateQuestionRequest{
			EventID:      event.ID,
			Text:         text,
			QuestionType: string(model.QuestionQuickOptions),
			Options:      []string{"Yes", "No"},
		})
		require.NoError(t, err)
	}
	_, err = c.StartEvent(ctx, event.ID)
	require.NoError(t, err)

	participant, err := c.Join(ctx, service.JoinRequest{EventID: event.ID, UserID: "user-1", Name: "Ana"})
	require.NoError(t, err)

	s, err := Load(ctx, c, event.ID, participant.ID, Options{Logger: logger})
	require.NoError(t, err)
	require.Len(t, s.Questions(), 3)
	// 欢迎语 + 第一题
	require.Equal(t, 2, s.Chat().Len())
	assert.Equal(t, AffordanceQuickOptions, s.Affordance().Kind)

	out, err := s.SubmitAnswer(ctx, "Yes", true)
	require.NoError(t, err)
	assert.Equal(t, service.PointsQuickOption, out.PointsAwarded)
	require.NotNil(t, out.BotMessage)
	assert.Contains(t, out.BotMessage.Text, "Pregunta 2 de 3")

	for _, answer := range []string{"Yes", "No"} {
		out, err = s.SubmitAnswer(ctx, answer, true)
		require.NoError(t, err)
	}
	assert.True(t, out.Completed)
	assert.True(t, s.Completed())

	final, err := c.GetParticipant(ctx, participant.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, final.ResponsesCount)
	assert.Equal(t, final.Points, s.Participant().Points)
	assert.Contains(t, out.BotMessage.Text, "Encuesta completada")
	assert.Equal(t, CompletionMessage(out.PointsAwarded, *final), out.BotMessage.Text)

	rankings := s.Rankings()
	require.Len(t, rankings, 1)
	assert.Equal(t, participant.ID, rankings[0].Participant.ID)

	// 重新加载后从服务端恢复进度
	again, err := Load(ctx, c, event.ID, participant.ID, Options{Logger: logger})
	require.NoError(t, err)
	assert.True(t, again.Completed())

	ok, err := again.Reset(ctx, func() bool { return true })
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, again.Index())
	assert.Equal(t, 0, again.Participant().Points)
	responses, err := c.ListResponses(ctx, repository.ResponseFilter{ParticipantID: participant.ID})
	require.NoError(t, err)
	assert.Empty(t, responses)
}
