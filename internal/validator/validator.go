package validator

import (
	"github.com/go-playground/validator/v10"

	"smartnotes/model"
)

// IsNoteTag 自定义校验函数：tag 必须是已知分类之一（空值走默认）
func IsNoteTag(fl validator.FieldLevel) bool {
	tag := fl.Field().String()
	if tag == "" {
		return true
	}
	return model.ValidTag(tag)
}
