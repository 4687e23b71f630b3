package service

import (
	"context"
	"strings"
	"time"

	"EventHub/internal/model"
	"EventHub/internal/repository"

	"github.com/sirupsen/logrus"
)

// ExampleInput 创建/更新示例的请求体；字段为空指针表示未提供
type ExampleInput struct {
	Name        *string    `json:"name"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	EntryDate   *time.Time `json:"entryDate"`
	IsActive    *bool      `json:"isActive"`
}

type ExampleService struct {
	repo   repository.ExampleRepository
	logger *logrus.Logger
}

func NewExampleService(repo repository.ExampleRepository, logger *logrus.Logger) *ExampleService {
	return &ExampleService{repo: repo, logger: logger}
}

func (s *ExampleService) List(ctx context.Context, name string) ([]*model.Example, error) {
	return s.repo.List(ctx, name)
}

func (s *ExampleService) Get(ctx context.Context, id uint64) (*model.Example, error) {
	example, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Example with ID %d not found", id)
	}
	return example, nil
}

func (s *ExampleService) Create(ctx context.Context, in ExampleInput) (*model.Example, error) {
	if blank(in.Name) || blank(in.Title) {
		return nil, Validation("Name and title are required", "name and title must not be empty")
	}
	example := &model.Example{
		Name:        strings.TrimSpace(*in.Name),
		Title:       strings.TrimSpace(*in.Title),
		Description: in.Description,
		EntryDate:   time.Now().UTC(),
		IsActive:    true,
	}
	if in.EntryDate != nil {
		example.EntryDate = in.EntryDate.UTC()
	}
	if in.IsActive != nil {
		example.IsActive = *in.IsActive
	}
	if err := s.repo.Create(ctx, example); err != nil {
		return nil, err
	}
	return example, nil
}

// Update 部分更新，只修改提供的字段
func (s *ExampleService) Update(ctx context.Context, id uint64, in ExampleInput) (*model.Example, error) {
	example, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if blank(in.Name) {
			return nil, Validation("Name must not be empty", "name")
		}
		example.Name = strings.TrimSpace(*in.Name)
	}
	if in.Title != nil {
		if blank(in.Title) {
			return nil, Validation("Title must not be empty", "title")
		}
		example.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		example.Description = in.Description
	}
	if in.EntryDate != nil {
		example.EntryDate = in.EntryDate.UTC()
	}
	if in.IsActive != nil {
		example.IsActive = *in.IsActive
	}
	if err := s.repo.Save(ctx, example); err != nil {
		return nil, err
	}
	return example, nil
}

func (s *ExampleService) Delete(ctx context.Context, id uint64) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return NotFound("Example with ID %d not found", id)
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
