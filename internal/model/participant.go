package model

import "time"

// Participant 某用户在某活动中的参与记录，(event_id, user_id) 唯一
type Participant struct {
	ID             uint64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	EventID        uint64     `gorm:"column:event_id;not null;uniqueIndex:uk_participant_event_user;comment:关联活动ID" json:"event_id"`
	UserID         string     `gorm:"column:user_id;type:varchar(100);not null;uniqueIndex:uk_participant_event_user;index;comment:用户标识" json:"user_id"`
	Name           string     `gorm:"column:name;type:varchar(200);not null;comment:昵称" json:"name"`
	Email          *string    `gorm:"column:email;type:varchar(200);comment:邮箱" json:"email"`
	AvatarURL      *string    `gorm:"column:avatar_url;type:varchar(500);comment:头像" json:"avatar_url"`
	Points         int        `gorm:"column:points;not null;default:0;comment:积分" json:"points"`
	Streak         int        `gorm:"column:streak;not null;default:0;comment:连续参与活动数" json:"streak"`
	QualityScore   float64    `gorm:"column:quality_score;type:double precision;not null;default:0;comment:平均回答质量" json:"quality_score"`
	SentimentScore float64    `gorm:"column:sentiment_score;type:double precision;not null;default:0;comment:平均情绪分" json:"sentiment_score"`
	ResponsesCount int        `gorm:"column:responses_count;not null;default:0;comment:回答数" json:"responses_count"`
	RankPosition   *int       `gorm:"column:rank_position;comment:当前排名" json:"rank_position"`
	JoinedAt       time.Time  `gorm:"column:joined_at;type:timestamp;not null;comment:加入时间" json:"joined_at"`
	LastActivityAt *time.Time `gorm:"column:last_activity_at;type:timestamp;comment:最近活跃时间" json:"last_activity_at"`
}

func (Participant) TableName() string {
	return "participants"
}
