package model

import "gorm.io/gorm"

// AllModels 按依赖顺序列出需要迁移的表
func AllModels() []interface{} {
	return []interface{}{
		&Example{},
		&Event{},
		&Participant{},
		&Question{},
		&Response{},
		&Message{},
		&Badge{},
		&ParticipantBadge{},
	}
}

// AutoMigrate 库表不存在则自动创建
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
