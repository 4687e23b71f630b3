package interfaces

import (
	"context"

	"EventHub/internal/model"
)

// SentimentResult 情绪分析结果
type SentimentResult struct {
	Sentiment  model.Sentiment `json:"sentiment"`
	Score      float64         `json:"score"`      // -1.0 ~ 1.0
	Confidence float64         `json:"confidence"` // 0.0 ~ 1.0
}

// GeneratedQuestion AI生成的问题（不落库）
type GeneratedQuestion struct {
	Text         string   `json:"text"`
	QuestionType string   `json:"question_type"`
	Options      []string `json:"options"`
	Reasoning    string   `json:"reasoning"`
}

// QuestionPrompt 出题上下文
type QuestionPrompt struct {
	Context           string
	PreviousQuestions []string
	QuestionType      string
}

// Analyzer 回答分析：情绪与质量
type Analyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (SentimentResult, error)
	QualityScore(ctx context.Context, text, questionText string) (float64, error)
}

// QuestionGenerator 活动问题生成
type QuestionGenerator interface {
	GenerateQuestion(ctx context.Context, prompt QuestionPrompt) (GeneratedQuestion, error)
}
