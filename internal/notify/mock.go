// Package notify 外部集成的模拟实现：日历、Slack 与邮件只写结构化日志。
package notify

import (
	"context"
	"fmt"

	"EventHub/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LogNotifier 将通知写入日志
type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) CreateCalendarEvent(_ context.Context, event *model.Event) (string, error) {
	id := "mock_cal_" + uuid.NewString()
	n.logger.WithFields(logrus.Fields{
		"integration": "google_calendar",
		"title":       event.Title,
		"event_date":  event.EventDate,
		"calendar_id": id,
	}).Info("日历事件已创建")
	return id, nil
}

func (n *LogNotifier) AnnounceEventStart(_ context.Context, event *model.Event) error {
	n.logger.WithFields(logrus.Fields{
		"integration": "slack",
		"event_id":    event.ID,
		"message":     fmt.Sprintf("🎉 %s está en vivo! Unite y participá para ganar puntos.", event.Title),
	}).Info("Slack通知已发送")
	return nil
}

func (n *LogNotifier) HighlightResponse(_ context.Context, participant *model.Participant, question *model.Question, response *model.Response) error {
	n.logger.WithFields(logrus.Fields{
		"integration":    "slack",
		"participant_id": participant.ID,
		"question_id":    question.ID,
		"message":        fmt.Sprintf("💡 %s respondió \"%s\": %s", participant.Name, question.Text, response.Text),
	}).Info("Slack高质量回答通知已发送")
	return nil
}

func (n *LogNotifier) SendThankYou(_ context.Context, event *model.Event, participant *model.Participant) error {
	if participant.Email == nil || *participant.Email == "" {
		return nil
	}
	n.logger.WithFields(logrus.Fields{
		"integration": "email",
		"to":          *participant.Email,
		"subject":     fmt.Sprintf("¡Gracias por participar en %s!", event.Title),
		"points":      participant.Points,
	}).Info("感谢邮件已发送")
	return nil
}
