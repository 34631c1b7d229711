package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"restaurant-forum/internal/domain"
)

// translate 唯一索引冲突统一成 domain.ErrDuplicate
func translate(err error) error {
	if err == nil {
		return nil
	}
	if isDupKey(err) {
		return domain.ErrDuplicate
	}
	return err
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 驱动未做 TranslateError 时按错误文本兜底
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func notFoundAsNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
