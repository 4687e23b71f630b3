package model

import "time"

// EventStatus 活动状态，只能 upcoming → live → completed 单向流转
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusLive      EventStatus = "live"
	EventStatusCompleted EventStatus = "completed"
)

// Valid 判断是否为已知状态
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusUpcoming, EventStatusLive, EventStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo 是否允许从 s 流转到 next（仅允许前进一步）
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	switch s {
	case EventStatusUpcoming:
		return next == EventStatusLive
	case EventStatusLive:
		return next == EventStatusCompleted
	}
	return false
}

const DefaultEventType = "tech_night"

type Event struct {
	ID               uint64      `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	Title            string      `gorm:"column:title;type:varchar(200);not null;comment:活动标题" json:"title"`
	Description      *string     `gorm:"column:description;type:text;comment:活动描述" json:"description"`
	EventDate        time.Time   `gorm:"column:event_date;type:timestamp;not null;index;comment:活动时间" json:"event_date"`
	Status           EventStatus `gorm:"column:status;type:varchar(16);not null;index;comment:状态：upcoming/live/completed" json:"status"`
	MaxParticipants  *int        `gorm:"column:max_participants;type:int;comment:人数上限" json:"max_participants"`
	SpeakerName      *string     `gorm:"column:speaker_name;type:varchar(200);comment:讲者" json:"speaker_name"`
	SpeakerAvatar    *string     `gorm:"column:speaker_avatar;type:varchar(500);comment:讲者头像" json:"speaker_avatar"`
	EventType        string      `gorm:"column:event_type;type:varchar(50);not null;comment:活动类型" json:"event_type"`
	GoogleCalendarID *string     `gorm:"column:google_calendar_id;type:varchar(200);comment:日历事件ID" json:"google_calendar_id"`
	CreatedAt        time.Time   `gorm:"column:created_at;autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"column:updated_at;autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 非持久化字段，由查询时统计
	ParticipantCount int64 `gorm:"-" json:"participant_count"`
}

func (Event) TableName() string {
	return "events"
}
