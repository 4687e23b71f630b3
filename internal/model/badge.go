package model

import "time"

// BadgeCriteria 徽章判定类型
type BadgeCriteria string

const (
	CriteriaFirstResponse     BadgeCriteria = "first_response"
	CriteriaStreak            BadgeCriteria = "streak"
	CriteriaQualityResponses  BadgeCriteria = "quality_responses"
	CriteriaTotalPoints       BadgeCriteria = "total_points"
	CriteriaCompletionRate    BadgeCriteria = "completion_rate"
	CriteriaFastResponse      BadgeCriteria = "fast_response"
	CriteriaLongResponse      BadgeCriteria = "long_response"
	CriteriaPositiveSentiment BadgeCriteria = "positive_sentiment"
)

type Badge struct {
	ID            uint64        `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	Name          string        `gorm:"column:name;type:varchar(100);not null;uniqueIndex;comment:徽章标识" json:"name"`
	DisplayName   string        `gorm:"column:display_name;type:varchar(200);not null;comment:展示名" json:"display_name"`
	Description   string        `gorm:"column:description;type:text;comment:描述" json:"description"`
	Icon          string        `gorm:"column:icon;type:varchar(16);not null;comment:图标" json:"icon"`
	CriteriaType  BadgeCriteria `gorm:"column:criteria_type;type:varchar(50);not null;comment:判定类型" json:"criteria_type"`
	CriteriaValue int           `gorm:"column:criteria_value;not null;comment:判定阈值" json:"criteria_value"`
	Rarity        string        `gorm:"column:rarity;type:varchar(20);not null;comment:common/rare/epic/legendary" json:"rarity"`
}

func (Badge) TableName() string {
	return "badges"
}

// ParticipantBadge 参与者已获得的徽章，(participant_id, badge_id) 唯一
type ParticipantBadge struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	ParticipantID uint64    `gorm:"column:participant_id;not null;uniqueIndex:uk_participant_badge;comment:参与者ID" json:"participant_id"`
	BadgeID       uint64    `gorm:"column:badge_id;not null;uniqueIndex:uk_participant_badge;comment:徽章ID" json:"badge_id"`
	EarnedAt      time.Time `gorm:"column:earned_at;type:timestamp;not null;comment:获得时间" json:"earned_at"`

	Badge *Badge `gorm:"-" json:"badge,omitempty"`
}

func (ParticipantBadge) TableName() string {
	return "participant_badges"
}

// BadgeDefinitions 启动时写入的徽章定义
var BadgeDefinitions = []Badge{
	{Name: "first_voice", DisplayName: "First Voice", Description: "Primera respuesta en un evento", Icon: "🎤", CriteriaType: CriteriaFirstResponse, CriteriaValue: 1, Rarity: "common"},
	{Name: "on_fire", DisplayName: "On Fire", Description: "Racha de 5 eventos consecutivos", Icon: "🔥", CriteriaType: CriteriaStreak, CriteriaValue: 5, Rarity: "rare"},
	{Name: "insight_master", DisplayName: "Insight Master", Description: "10 respuestas de alta calidad", Icon: "💎", CriteriaType: CriteriaQualityResponses, CriteriaValue: 10, Rarity: "epic"},
	{Name: "community_leader", DisplayName: "Community Leader", Description: "1000 puntos acumulados", Icon: "👑", CriteriaType: CriteriaTotalPoints, CriteriaValue: 1000, Rarity: "legendary"},
	{Name: "perfectionist", DisplayName: "Perfectionist", Description: "Completa todas las preguntas de un evento", Icon: "🎯", CriteriaType: CriteriaCompletionRate, CriteriaValue: 100, Rarity: "rare"},
	{Name: "speed_demon", DisplayName: "Speed Demon", Description: "Responde en menos de 10 segundos", Icon: "⚡", CriteriaType: CriteriaFastResponse, CriteriaValue: 10, Rarity: "rare"},
	{Name: "wordsmith", DisplayName: "Wordsmith", Description: "Respuesta de más de 200 caracteres", Icon: "✍️", CriteriaType: CriteriaLongResponse, CriteriaValue: 200, Rarity: "common"},
	{Name: "positive_vibes", DisplayName: "Positive Vibes", Description: "10 respuestas con sentimiento positivo", Icon: "😊", CriteriaType: CriteriaPositiveSentiment, CriteriaValue: 10, Rarity: "common"},
}
