package response

import (
	"net/http"
)

// ErrorKind 业务错误种类，决定 HTTP 状态码
type ErrorKind int

const (
	// 输入缺失或非法，调用方的问题，未持久化任何内容
	KindValidation ErrorKind = iota + 1
	// ID 不存在或不属于调用者（两种情况对外不可区分）
	KindNotFound
	// 文件系统写入/移动/删除失败
	KindStorage
	// 存储步骤与元数据步骤之间出现了不一致，补偿动作已执行
	KindConsistency
	// 纯数据库错误（尚未触及文件系统）
	KindDatabase
	// 认证缺失
	KindUnauthorized
	// 认证失败（令牌无效或过期）
	KindForbidden
	// 唯一性冲突（如邮箱已注册）
	KindConflict
)

// BusinessError 携带错误种类的业务错误
type BusinessError struct {
	Kind ErrorKind
	// 错误类别的固定描述，对应响应体的 error 字段
	Msg string
	// 人类可读的细节，对应响应体的 details 字段
	Detail string
	Err    error
}

func (e *BusinessError) Error() string {
	if e.Detail != "" {
		return e.Msg + ": " + e.Detail
	}
	return e.Msg
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// Status 错误种类到 HTTP 状态码的映射
func (e *BusinessError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type ErrorOption func(*BusinessError)

func WithKind(kind ErrorKind) ErrorOption {
	return func(be *BusinessError) {
		be.Kind = kind
	}
}

func WithMessage(msg string) ErrorOption {
	return func(be *BusinessError) {
		be.Msg = msg
	}
}

func WithDetail(detail string) ErrorOption {
	return func(be *BusinessError) {
		be.Detail = detail
	}
}

func WithError(err error) ErrorOption {
	return func(be *BusinessError) {
		be.Err = err
		if be.Detail == "" && err != nil {
			be.Detail = err.Error()
		}
	}
}

func NewBusinessError(opts ...ErrorOption) *BusinessError {
	err := &BusinessError{
		Kind: KindDatabase,
		Msg:  "服务器错误",
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// 各错误种类的便捷构造

func NewValidationError(detail string) *BusinessError {
	return NewBusinessError(WithKind(KindValidation), WithMessage("参数错误"), WithDetail(detail))
}

func NewNotFoundError(detail string) *BusinessError {
	return NewBusinessError(WithKind(KindNotFound), WithMessage("资源不存在"), WithDetail(detail))
}

func NewStorageError(detail string, err error) *BusinessError {
	return NewBusinessError(WithKind(KindStorage), WithMessage("存储操作失败"), WithDetail(detail), WithError(err))
}

func NewConsistencyError(detail string, err error) *BusinessError {
	return NewBusinessError(WithKind(KindConsistency), WithMessage("存储与元数据不一致"), WithDetail(detail), WithError(err))
}

func NewDatabaseError(err error) *BusinessError {
	return NewBusinessError(WithKind(KindDatabase), WithMessage("数据库错误"), WithError(err))
}

func NewUnauthorizedError(detail string) *BusinessError {
	return NewBusinessError(WithKind(KindUnauthorized), WithMessage("需要认证"), WithDetail(detail))
}

func NewForbiddenError(detail string) *BusinessError {
	return NewBusinessError(WithKind(KindForbidden), WithMessage("认证失败"), WithDetail(detail))
}

func NewConflictError(detail string) *BusinessError {
	return NewBusinessError(WithKind(KindConflict), WithMessage("资源冲突"), WithDetail(detail))
}
