package service

import (
	"strings"
	"testing"

	"EventHub/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestScorer_Points(t *testing.T) {
	tests := []struct {
		name  string
		bonus int
		in    ScoreInput
		want  int
	}{
		{name: "quick option", in: ScoreInput{Text: "Yes", IsQuickOption: true, Quality: 0.04, Sentiment: model.SentimentNeutral}, want: 10},
		{name: "rating", in: ScoreInput{Text: "⭐ 5 de 5", IsRating: true}, want: 10},
		{name: "short text", in: ScoreInput{Text: "corto"}, want: 15},
		{name: "medium text", in: ScoreInput{Text: strings.Repeat("a", 60)}, want: 25},
		{name: "long text", in: ScoreInput{Text: strings.Repeat("a", 120)}, want: 40},
		{name: "quality and positive", in: ScoreInput{Text: strings.Repeat("a", 120), Quality: 0.7, Sentiment: model.SentimentPositive}, want: 70},
		{name: "first response without bonus", in: ScoreInput{IsQuickOption: true, IsFirstResponse: true}, want: 10},
		{name: "first response with bonus", bonus: 50, in: ScoreInput{IsQuickOption: true, IsFirstResponse: true}, want: 60},
		{name: "multibyte counts runes", in: ScoreInput{Text: strings.Repeat("é", 49)}, want: 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scorer{FirstResponseBonus: tt.bonus}.Points(tt.in)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestErrorsClassify(t *testing.T) {
	err := NotFound("Example with ID %d not found", 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Example with ID 42 not found", err.Error())

	assert.ErrorIs(t, Validation("Name and title are required", "x"), ErrValidation)
	assert.ErrorIs(t, Conflict("dup"), ErrConflict)
	assert.ErrorIs(t, InvalidTransition("completed", "live"), ErrInvalidTransition)
	assert.NotErrorIs(t, InvalidTransition("a", "b"), ErrValidation)
}

func TestEventStatusTransitions(t *testing.T) {
	assert.True(t, model.EventStatusUpcoming.CanTransitionTo(model.EventStatusLive))
	assert.True(t, model.EventStatusLive.CanTransitionTo(model.EventStatusCompleted))
	assert.False(t, model.EventStatusUpcoming.CanTransitionTo(model.EventStatusCompleted))
	assert.False(t, model.EventStatusLive.CanTransitionTo(model.EventStatusUpcoming))
	assert.False(t, model.EventStatusCompleted.CanTransitionTo(model.EventStatusLive))
}
