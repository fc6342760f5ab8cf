package split

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument: 入参非法（通用哨兵；当前仅空分隔符一种情形）。
var ErrInvalidArgument = errors.New("invalid argument")

// Split 将 text 按字面分隔符 delim 切分为有序片段序列。
// 约束：
// 1) 字面匹配（非正则），大小写敏感，逐字节精确比较；
// 2) 匹配不重叠：每次命中消耗其字节，下一次查找自命中结束位置开始；
// 3) strings.Join(segs, delim) == text 恒成立（往返律）；
// 4) len(segs) == 非重叠出现次数 + 1；空 text 返回 [""]。
// 空 delim 为非法入参：返回包装 ErrInvalidArgument 的错误，不做逐字符切分。
// 纯函数，无 I/O、无共享状态；并发调用安全。
func Split(text, delim string) ([]string, error) {
	if delim == "" {
		return nil, fmt.Errorf("split: empty delimiter: %w", ErrInvalidArgument)
	}
	segs := make([]string, 0, strings.Count(text, delim)+1)
	for {
		i := strings.Index(text, delim)
		if i < 0 {
			return append(segs, text), nil
		}
		segs = append(segs, text[:i])
		text = text[i+len(delim):]
	}
}
