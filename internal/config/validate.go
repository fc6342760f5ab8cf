package config

import (
	"errors"
	"fmt"
	"strings"

	"delimsplit/pkg/split"
)

// Validate 对最小必要边界做静态校验。
func Validate(cfg Config) error {
	// 空分隔符在此处拒绝，避免进入退化的扫描循环。
	if cfg.Delimiter == "" {
		return fmt.Errorf("config: empty delimiter: %w", split.ErrInvalidArgument)
	}
	if cfg.FromText {
		if len(cfg.Inputs) > 0 {
			return errors.New("config: text and inputs are mutually exclusive")
		}
	} else {
		if len(cfg.Inputs) == 0 {
			return errors.New("config: inputs empty")
		}
		// 输入路径不得为空字符串；"-" 不能与其他根混用
		dash := false
		for _, r := range cfg.Inputs {
			if strings.TrimSpace(r) == "" {
				return errors.New("config: input path cannot be empty")
			}
			if strings.TrimSpace(r) == "-" {
				dash = true
			}
		}
		if dash && len(cfg.Inputs) > 1 {
			return errors.New("config: '-' cannot be mixed with other roots")
		}
	}
	if strings.TrimSpace(cfg.Output) == "" {
		return errors.New("config: output empty")
	}
	return nil
}
