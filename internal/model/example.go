package model

import "time"

// Example 示例CRUD资源，供脚手架前端联调使用（JSON 字段使用 camelCase）
type Example struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(200);not null;comment:名称" json:"name"`
	Title       string    `gorm:"column:title;type:varchar(200);not null;comment:职位/标题" json:"title"`
	EntryDate   time.Time `gorm:"column:entry_date;type:timestamp;not null;comment:录入时间" json:"entryDate"`
	Description *string   `gorm:"column:description;type:varchar(1000);comment:描述" json:"description"`
	IsActive    bool      `gorm:"column:is_active;type:boolean;not null;comment:是否启用" json:"isActive"`
}

func (Example) TableName() string {
	return "examples"
}
