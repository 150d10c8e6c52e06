// Package response 统一的响应与业务错误封装
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorBody 错误响应体，与前端约定的 {error, details} 结构
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// OK 200 成功响应
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created 201 成功响应
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// Error 按错误种类写出对应状态码的错误响应
func Error(c *gin.Context, err *BusinessError) {
	c.JSON(err.Status(), ErrorBody{Error: err.Msg, Details: err.Detail})
}

// ErrorFrom 将任意 error 转换为业务错误响应；
// 非业务错误一律按数据库错误处理
func ErrorFrom(c *gin.Context, err error) {
	var be *BusinessError
	if errors.As(err, &be) {
		Error(c, be)
		return
	}
	Error(c, NewDatabaseError(err))
}

// ValidationErrorResponse 处理 gin 绑定产生的验证错误，返回友好的字段名
func ValidationErrorResponse(c *gin.Context, err error) {
	if validationErrs, ok := err.(validator.ValidationErrors); ok && len(validationErrs) > 0 {
		firstErr := validationErrs[0]
		jsonField := toSnakeCase(firstErr.Field())

		var message string
		switch firstErr.Tag() {
		case "required":
			message = fmt.Sprintf("字段 '%s' 是必填项", jsonField)
		case "max":
			message = fmt.Sprintf("字段 '%s' 长度不能超过 %s", jsonField, firstErr.Param())
		case "min":
			message = fmt.Sprintf("字段 '%s' 长度不能少于 %s", jsonField, firstErr.Param())
		case "oneof":
			message = fmt.Sprintf("字段 '%s' 必须是以下值之一: %s", jsonField, firstErr.Param())
		default:
			message = fmt.Sprintf("字段 '%s' 验证失败: %s", jsonField, firstErr.Tag())
		}

		Error(c, NewValidationError(message))
		return
	}

	Error(c, NewValidationError("参数解析失败: "+err.Error()))
}

// toSnakeCase 将 PascalCase 转换为 snake_case
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
