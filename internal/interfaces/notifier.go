package interfaces

import (
	"context"

	"EventHub/internal/model"
)

// Notifier 外部通知集成（Slack、邮件、日历）
type Notifier interface {
	// CreateCalendarEvent 返回日历事件ID
	CreateCalendarEvent(ctx context.Context, event *model.Event) (string, error)
	AnnounceEventStart(ctx context.Context, event *model.Event) error
	HighlightResponse(ctx context.Context, participant *model.Participant, question *model.Question, response *model.Response) error
	SendThankYou(ctx context.Context, event *model.Event, participant *model.Participant) error
}
