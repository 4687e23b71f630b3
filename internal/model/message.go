package model

import "time"

// MessageType 聊天消息来源
type MessageType string

const (
	MessageBot  MessageType = "bot"
	MessageUser MessageType = "user"
)

// Message 聊天记录，按 created_at 升序回放；机器人消息 participant_id 为空
type Message struct {
	ID            uint64      `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	EventID       uint64      `gorm:"column:event_id;not null;index:idx_message_event_created;comment:关联活动ID" json:"event_id"`
	ParticipantID *uint64     `gorm:"column:participant_id;index;comment:关联参与者ID（机器人为空）" json:"participant_id"`
	Text          string      `gorm:"column:text;type:text;not null;comment:消息内容" json:"text"`
	MessageType   MessageType `gorm:"column:message_type;type:varchar(16);not null;comment:bot/user" json:"message_type"`
	CreatedAt     time.Time   `gorm:"column:created_at;autoCreateTime;index:idx_message_event_created;comment:创建时间" json:"created_at"`

	ParticipantName   *string `gorm:"-" json:"participant_name,omitempty"`
	ParticipantAvatar *string `gorm:"-" json:"participant_avatar,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
