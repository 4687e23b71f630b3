package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// 错误分类，API 层据此映射 HTTP 状态码
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Error 带分类的业务错误；Message 面向用户，Detail 为补充说明
type Error struct {
	Kind    error
	Message string
	Detail  string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(message, detail string) error {
	return &Error{Kind: ErrValidation, Message: message, Detail: detail}
}

func Conflict(message string) error {
	return &Error{Kind: ErrConflict, Message: message, Detail: ErrConflict.Error()}
}

func InvalidTransition(from, to string) error {
	return &Error{
		Kind:    ErrInvalidTransition,
		Message: fmt.Sprintf("Cannot change event status from %s to %s", from, to),
		Detail:  ErrInvalidTransition.Error(),
	}
}

// notFoundOr 把 gorm 的 ErrRecordNotFound 转为 NotFound，其余错误原样返回
func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(format, args...)
	}
	return err
}
