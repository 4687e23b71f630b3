package analysis

import (
	"context"
	"strings"
	"testing"

	"EventHub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordSentiment(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  model.Sentiment
		score float64
	}{
		{name: "single positive", text: "Sí", want: model.SentimentPositive, score: 0.4},
		{name: "capped positive", text: "genial, excelente, increíble, perfecto, fantástico", want: model.SentimentPositive, score: 0.7},
		{name: "negative", text: "Fue aburrido y confuso", want: model.SentimentNegative, score: -0.5},
		{name: "phrase", text: "No entendí nada", want: model.SentimentNegative, score: -0.5},
		{name: "bueno is not no", text: "Muy bueno", want: model.SentimentPositive, score: 0.4},
		{name: "neutral", text: "La charla duró una hora", want: model.SentimentNeutral, score: 0},
		{name: "tie is neutral", text: "great but boring", want: model.SentimentNeutral, score: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeywordSentiment(tt.text)
			assert.Equal(t, tt.want, got.Sentiment)
			assert.InDelta(t, tt.score, got.Score, 1e-9)
			assert.Equal(t, 0.6, got.Confidence)
		})
	}
}

func TestQuality(t *testing.T) {
	assert.Equal(t, 0.04, Quality("Yes"))
	assert.Equal(t, 1.0, Quality(strings.Repeat("palabra ", 25)))
	assert.Equal(t, 0.0, Quality(""))
}

func TestHeuristicImplementsAnalyzer(t *testing.T) {
	h := NewHeuristic()
	res, err := h.AnalyzeSentiment(context.Background(), "excelente")
	require.NoError(t, err)
	assert.Equal(t, model.SentimentPositive, res.Sentiment)

	q, err := h.QualityScore(context.Background(), "Yes", "¿Te gustó?")
	require.NoError(t, err)
	assert.Equal(t, 0.04, q)
}
