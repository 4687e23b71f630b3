// Package analysis 本地情绪/质量评估，在未配置AI或AI调用失败时使用。
package analysis

import (
	"context"
	"math"
	"strings"
	"unicode"

	"EventHub/internal/interfaces"
	"EventHub/internal/model"
)

var positiveWords = []string{
	"excelente", "genial", "bueno", "útil", "claro", "interesante",
	"me encanta", "definitivamente", "sí", "perfecto", "increíble",
	"fantástico", "maravilloso", "great", "excellent", "amazing",
}

var negativeWords = []string{
	"confuso", "difícil", "no entendí", "malo", "aburrido", "no",
	"complicado", "terrible", "horrible", "bad", "difficult", "boring",
}

// Heuristic 基于关键词与长度的分析器
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// AnalyzeSentiment 关键词计数；单词按整词匹配，短语按子串匹配（避免 "bueno" 命中 "no"）
func (h *Heuristic) AnalyzeSentiment(_ context.Context, text string) (interfaces.SentimentResult, error) {
	return KeywordSentiment(text), nil
}

func (h *Heuristic) QualityScore(_ context.Context, text, _ string) (float64, error) {
	return Quality(text), nil
}

// KeywordSentiment 关键词情绪分析
func KeywordSentiment(text string) interfaces.SentimentResult {
	lower := strings.ToLower(text)
	tokens := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		tokens[tok] = true
	}

	count := func(words []string) int {
		n := 0
		for _, w := range words {
			if strings.Contains(w, " ") {
				if strings.Contains(lower, w) {
					n++
				}
				continue
			}
			if tokens[w] {
				n++
			}
		}
		return n
	}
	pos, neg := count(positiveWords), count(negativeWords)

	result := interfaces.SentimentResult{Sentiment: model.SentimentNeutral, Confidence: 0.6}
	switch {
	case pos > neg:
		result.Sentiment = model.SentimentPositive
		result.Score = math.Min(0.7, 0.3+float64(pos)*0.1)
	case neg > pos:
		result.Sentiment = model.SentimentNegative
		result.Score = math.Max(-0.7, -0.3-float64(neg)*0.1)
	}
	return result
}

// Quality 长度与词数各占一半，保留两位小数
func Quality(text string) float64 {
	length := math.Min(1, float64(len([]rune(text)))/100)
	words := math.Min(1, float64(len(strings.Fields(text)))/20)
	return math.Round((length*0.5+words*0.5)*100) / 100
}
