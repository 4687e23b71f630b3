package model

import "time"

// Sentiment 情绪分类
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Response 参与者对问题的回答，创建后不再修改；(question_id, participant_id) 唯一
type Response struct {
	ID                  uint64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	QuestionID          uint64     `gorm:"column:question_id;not null;uniqueIndex:uk_response_question_participant;comment:关联问题ID" json:"question_id"`
	ParticipantID       uint64     `gorm:"column:participant_id;not null;uniqueIndex:uk_response_question_participant;index;comment:关联参与者ID" json:"participant_id"`
	Text                string     `gorm:"column:text;type:text;not null;comment:回答内容" json:"text"`
	Rating              *int       `gorm:"column:rating;comment:评分1-5" json:"rating"`
	Sentiment           *Sentiment `gorm:"column:sentiment;type:varchar(16);comment:情绪" json:"sentiment"`
	SentimentScore      *float64   `gorm:"column:sentiment_score;type:double precision;comment:情绪分-1~1" json:"sentiment_score"`
	QualityScore        *float64   `gorm:"column:quality_score;type:double precision;comment:质量分0~1" json:"quality_score"`
	AISummary           *string    `gorm:"column:ai_summary;type:text;comment:AI摘要" json:"ai_summary"`
	ResponseTimeSeconds *int       `gorm:"column:response_time_seconds;comment:作答耗时（秒）" json:"response_time_seconds"`
	IsQuickOption       bool       `gorm:"column:is_quick_option;type:boolean;not null;default:false;comment:是否快捷选项" json:"is_quick_option"`
	PointsAwarded       int        `gorm:"column:points_awarded;not null;default:0;comment:本次获得积分" json:"points_awarded"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime;comment:创建时间" json:"created_at"`
}

func (Response) TableName() string {
	return "responses"
}
