package notify

import (
	"context"
	"strings"
	"testing"

	"EventHub/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogNotifier(t *testing.T) {
	logger, hook := test.NewNullLogger()
	n := NewLogNotifier(logger)
	ctx := context.Background()
	event := &model.Event{ID: 1, Title: "Tech Night"}

	id, err := n.CreateCalendarEvent(ctx, event)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "mock_cal_"))

	require.NoError(t, n.AnnounceEventStart(ctx, event))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "slack", entry.Data["integration"])

	hook.Reset()
	require.NoError(t, n.SendThankYou(ctx, event, &model.Participant{Name: "sin mail"}))
	assert.Empty(t, hook.AllEntries(), "no e-mail, nothing sent")

	email := "ana@example.com"
	require.NoError(t, n.SendThankYou(ctx, event, &model.Participant{Name: "Ana", Email: &email}))
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, email, hook.LastEntry().Data["to"])

	require.NoError(t, n.HighlightResponse(ctx, &model.Participant{ID: 2, Name: "Ana"}, &model.Question{ID: 3, Text: "¿Qué tal?"}, &model.Response{Text: "Muy bueno"}))
	assert.Equal(t, uint64(3), hook.LastEntry().Data["question_id"])
}
