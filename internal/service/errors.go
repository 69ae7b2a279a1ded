package service

import "errors"

// ==================== 错误分类 ====================
// 校验失败 -> 400，未知 ID / 跨租户 -> 404，ID 格式非法 -> 400，
// 其余存储错误 -> 500 (记日志，对外只给笼统信息)

var (
	// ErrTimerNotFound 计时器不存在或不属于当前店铺
	ErrTimerNotFound = errors.New("timer not found")
	// ErrInvalidTimerID 计时器 ID 无法定位存储 (格式非法)
	ErrInvalidTimerID = errors.New("invalid timer id")
)

// ValidationError 输入校验失败
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidationError 判断是否为校验错误
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
