// Package gemini 通过 Gemini REST 接口做回答情绪分析与问题生成，任何失败都回退到本地关键词分析。
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"EventHub/internal/analysis"
	"EventHub/internal/config"
	"EventHub/internal/interfaces"
	"EventHub/internal/model"
	"EventHub/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

const FallbackQuestion = "¿Qué aspecto del evento te resultó más interesante?"

var fenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// Client Gemini 适配器，同时实现 interfaces.Analyzer 与 interfaces.QuestionGenerator
type Client struct {
	cfg        config.GeminiConfig
	httpClient *http.Client
	logger     *logrus.Logger
	fallback   *analysis.Heuristic
}

func NewClient(cfg config.GeminiConfig, logger *logrus.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: httpclient.NewHTTPClient(httpclient.Options{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
			Proxy:   cfg.Proxy,
		}, logger),
		logger:   logger,
		fallback: analysis.NewHeuristic(),
	}
}

// Enabled 是否配置了 API Key
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generate 调用 generateContent 并返回首个候选的文本（已去掉 markdown 代码块）
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求Gemini失败: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取Gemini响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini返回状态码 %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("解析Gemini响应失败: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini响应中没有候选结果")
	}
	return stripFences(out.Candidates[0].Content.Parts[0].Text), nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// truncate 最多保留 n 个字符，不截断多字节字符
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// AnalyzeSentiment 不返回错误：AI 不可用时使用关键词分析
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (interfaces.SentimentResult, error) {
	if !c.Enabled() {
		return analysis.KeywordSentiment(text), nil
	}

	prompt := fmt.Sprintf(`Analyze the sentiment of the following text and respond ONLY with a JSON object (no markdown, no backticks):
{"sentiment": "positive" | "negative" | "neutral", "score": <float between -1.0 and 1.0>, "confidence": <float between 0.0 and 1.0>}

Text to analyze: %q

Rules:
- "positive" if enthusiastic, happy, constructive
- "negative" if critical, unhappy, frustrated
- "neutral" if balanced or informational`, text)

	out, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.WithError(err).Warn("Gemini情绪分析失败，使用关键词分析")
		return analysis.KeywordSentiment(text), nil
	}

	var data struct {
		Sentiment  string   `json:"sentiment"`
		Score      float64  `json:"score"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		c.logger.WithError(err).WithField("raw", truncate(out, 200)).Warn("Gemini情绪结果无法解析，使用关键词分析")
		return analysis.KeywordSentiment(text), nil
	}

	result := interfaces.SentimentResult{
		Sentiment:  normalizeSentiment(data.Sentiment),
		Score:      clamp(data.Score, -1, 1),
		Confidence: 0.5,
	}
	if data.Confidence != nil {
		result.Confidence = clamp(*data.Confidence, 0, 1)
	}
	c.logger.WithFields(logrus.Fields{
		"sentiment": result.Sentiment,
		"score":     result.Score,
	}).Debug("Gemini情绪分析完成")
	return result, nil
}

// QualityScore 质量分只用本地规则计算
func (c *Client) QualityScore(ctx context.Context, text, questionText string) (float64, error) {
	return c.fallback.QualityScore(ctx, text, questionText)
}

// GenerateQuestion 不返回错误：AI 不可用时返回固定的开放式问题
func (c *Client) GenerateQuestion(ctx context.Context, p interfaces.QuestionPrompt) (interfaces.GeneratedQuestion, error) {
	questionType := p.QuestionType
	if questionType == "" {
		questionType = string(model.QuestionFreeText)
	}
	if !c.Enabled() {
		return fallbackQuestion(), nil
	}

	previous := "None yet"
	if len(p.PreviousQuestions) > 0 {
		previous = "- " + strings.Join(p.PreviousQuestions, "\n- ")
	}
	prompt := fmt.Sprintf(`Generate a thoughtful, engaging question for an event with this context:
Context: %s

Previous questions already asked (avoid similar topics):
%s

Question type: %s

Respond ONLY with a JSON object (no markdown, no backticks):
{"text": "<the question text in Spanish>", "question_type": "%s", "options": ["Option 1", "Option 2"], "reasoning": "<why this question is valuable>"}
Only include options when the question type is "quick_options".`, p.Context, previous, questionType, questionType)

	out, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.WithError(err).Warn("Gemini出题失败，使用默认问题")
		return fallbackQuestion(), nil
	}

	var q interfaces.GeneratedQuestion
	if err := json.Unmarshal([]byte(out), &q); err != nil || strings.TrimSpace(q.Text) == "" {
		c.logger.WithField("raw", truncate(out, 200)).Warn("Gemini出题结果无法解析，使用默认问题")
		return fallbackQuestion(), nil
	}
	if q.QuestionType == "" {
		q.QuestionType = questionType
	}
	if q.Reasoning == "" {
		q.Reasoning = "Generated question"
	}
	return q, nil
}

func fallbackQuestion() interfaces.GeneratedQuestion {
	return interfaces.GeneratedQuestion{
		Text:         FallbackQuestion,
		QuestionType: string(model.QuestionFreeText),
		Reasoning:    "Fallback question",
	}
}

func normalizeSentiment(s string) model.Sentiment {
	switch model.Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case model.SentimentPositive:
		return model.SentimentPositive
	case model.SentimentNegative:
		return model.SentimentNegative
	}
	return model.SentimentNeutral
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
