package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// trimPtr 去掉首尾空白，空串视为未提供
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
