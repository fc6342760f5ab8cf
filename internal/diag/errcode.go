package diag

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"delimsplit/pkg/split"
)

// Code 是最小错误分类代码。
// 仅用于日志汇总，与退出码解耦。
type Code string

const (
	CodeUnknown Code = "unknown"
	CodeInvalid Code = "invalid_argument"
	CodeCancel  Code = "cancel"
	CodeIO      Code = "io"
)

// Classify 将错误归为最小分类。
// 说明：仅依赖哨兵错误与标准库错误类型，不做字符串匹配。
func Classify(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	// 取消/超时优先
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCancel
	}
	// 入参非法（空分隔符）
	if errors.Is(err, split.ErrInvalidArgument) {
		return CodeInvalid
	}
	// I/O
	var perr *os.PathError
	if errors.As(err, &perr) {
		return CodeIO
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return CodeIO
	}
	return CodeUnknown
}

// NowUTC 返回 RFC3339 UTC 时间字符串（用于结构化日志字段 ts）。
func NowUTC() string { return time.Now().UTC().Format(time.RFC3339) }
