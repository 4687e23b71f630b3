package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuestionType 问题类型
type QuestionType string

const (
	QuestionQuickOptions QuestionType = "quick_options"
	QuestionRating       QuestionType = "rating"
	QuestionFreeText     QuestionType = "free_text"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionQuickOptions, QuestionRating, QuestionFreeText:
		return true
	}
	return false
}

// Question 活动问题，按 order 升序作答；options 仅 quick_options 类型存在
type Question struct {
	ID            uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	EventID       uint64         `gorm:"column:event_id;not null;uniqueIndex:uk_question_event_order;comment:关联活动ID" json:"event_id"`
	Text          string         `gorm:"column:text;type:text;not null;comment:问题内容" json:"text"`
	QuestionType  QuestionType   `gorm:"column:question_type;type:varchar(32);not null;comment:quick_options/rating/free_text" json:"question_type"`
	Order         int            `gorm:"column:sort_order;not null;uniqueIndex:uk_question_event_order;comment:作答顺序" json:"order"`
	Options       datatypes.JSON `gorm:"column:options;type:jsonb;comment:快捷选项" json:"options"`
	IsAIGenerated bool           `gorm:"column:is_ai_generated;type:boolean;not null;default:false;comment:是否AI生成" json:"is_ai_generated"`
	AIContext     *string        `gorm:"column:ai_context;type:text;comment:AI出题上下文" json:"ai_context"`
	AskedAt       *time.Time     `gorm:"column:asked_at;type:timestamp;comment:提问时间" json:"asked_at"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime;comment:创建时间" json:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}
