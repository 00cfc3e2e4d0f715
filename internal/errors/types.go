package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误
	ErrCodeInternalServer  ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"

	// 配置错误（启动或首次使用时直接失败）
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"

	// 业务逻辑错误
	ErrCodeUploadNotFound  ErrorCode = "UPLOAD_NOT_FOUND"
	ErrCodeDuplicateUpload ErrorCode = "DUPLICATE_UPLOAD"

	// 验证错误
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"

	// 存储错误
	ErrCodeStorage          ErrorCode = "STORAGE_ERROR"
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"

	// 外部服务错误（解析/嵌入/生成）
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT"

	// 文件处理错误
	ErrCodeFileTooLarge      ErrorCode = "FILE_TOO_LARGE"
	ErrCodeInvalidFileFormat ErrorCode = "INVALID_FILE_FORMAT"
)

// ErrorType 错误类型
type ErrorType int

const (
	ErrorTypeSystem ErrorType = iota
	ErrorTypeBusiness
	ErrorTypeValidation
	ErrorTypeExternal
)

// AppError 应用错误结构体
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Type     ErrorType   `json:"type"`
	HTTPCode int         `json:"-"`
	Details  interface{} `json:"details,omitempty"`
	Cause    error       `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加错误详情
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause 添加错误原因
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewSystemError 创建系统错误
func NewSystemError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Type:     ErrorTypeSystem,
		HTTPCode: http.StatusInternalServerError,
	}
}

// NewConfigurationError 创建配置错误（缺少必须的连接串/凭证）
func NewConfigurationError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeConfiguration,
		Message:  message,
		Type:     ErrorTypeSystem,
		HTTPCode: http.StatusInternalServerError,
	}
}

// NewBusinessError 创建业务错误
func NewBusinessError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Type:     ErrorTypeBusiness,
		HTTPCode: getHTTPCodeForError(code),
	}
}

// NewValidationError 创建验证错误
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeValidationFailed,
		Message:  message,
		Type:     ErrorTypeValidation,
		HTTPCode: http.StatusBadRequest,
	}
}

// NewNotFoundError 创建资源未找到错误
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:     ErrCodeUploadNotFound,
		Message:  fmt.Sprintf("%s not found", resource),
		Type:     ErrorTypeBusiness,
		HTTPCode: http.StatusNotFound,
	}
}

// NewExternalServiceError 创建外部服务错误（解析、嵌入、生成等协作方失败）
func NewExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:     ErrCodeExternalService,
		Message:  fmt.Sprintf("%s service failed", service),
		Type:     ErrorTypeExternal,
		HTTPCode: http.StatusBadGateway,
		Cause:    cause,
	}
}

// NewStorageError 创建存储错误
func NewStorageError(message string, cause error) *AppError {
	return &AppError{
		Code:     ErrCodeStorage,
		Message:  message,
		Type:     ErrorTypeSystem,
		HTTPCode: http.StatusInternalServerError,
		Cause:    cause,
	}
}

// getHTTPCodeForError 根据错误码获取HTTP状态码
func getHTTPCodeForError(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound, ErrCodeUploadNotFound:
		return http.StatusNotFound
	case ErrCodeConflict, ErrCodeDuplicateUpload:
		return http.StatusConflict
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrCodeValidationFailed, ErrCodeInvalidInput, ErrCodeBadRequest,
		ErrCodeFileTooLarge, ErrCodeInvalidFileFormat:
		return http.StatusBadRequest
	case ErrCodeExternalService, ErrCodeTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsAppError 检查是否为AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取AppError，如果不是则包装为系统错误
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewSystemError(ErrCodeInternalServer, "Internal server error").WithCause(err)
}
