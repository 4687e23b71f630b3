package repository

import (
	"context"
	"strings"

	"EventHub/internal/model"

	"gorm.io/gorm"
)

// ExampleRepository 示例资源的CRUD仓储
type ExampleRepository interface {
	// List 按录入时间倒序列出，name 非空时做不区分大小写的包含匹配
	List(ctx context.Context, name string) ([]*model.Example, error)
	Get(ctx context.Context, id uint64) (*model.Example, error)
	Create(ctx context.Context, example *model.Example) error
	Save(ctx context.Context, example *model.Example) error
	// Delete 返回删除的行数
	Delete(ctx context.Context, id uint64) (int64, error)
}

type exampleRepository struct {
	db *gorm.DB
}

func NewExampleRepository(db *gorm.DB) ExampleRepository {
	return &exampleRepository{db: db}
}

func (r *exampleRepository) List(ctx context.Context, name string) ([]*model.Example, error) {
	db := r.db.WithContext(ctx).Model(&model.Example{})
	if name = strings.TrimSpace(name); name != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var examples []*model.Example
	if err := db.Order("entry_date DESC").Order("id DESC").Find(&examples).Error; err != nil {
		return nil, err
	}
	return examples, nil
}

func (r *exampleRepository) Get(ctx context.Context, id uint64) (*model.Example, error) {
	var example model.Example
	if err := r.db.WithContext(ctx).First(&example, id).Error; err != nil {
		return nil, err
	}
	return &example, nil
}

func (r *exampleRepository) Create(ctx context.Context, example *model.Example) error {
	return r.db.WithContext(ctx).Create(example).Error
}

func (r *exampleRepository) Save(ctx context.Context, example *model.Example) error {
	return r.db.WithContext(ctx).Save(example).Error
}

func (r *exampleRepository) Delete(ctx context.Context, id uint64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Example{}, id)
	return result.RowsAffected, result.Error
}
