package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
)

// Defaults 返回带有安全默认值的 Config 雏形。
// 注意：Delimiter 不设默认（必须由 JSON/ENV/CLI 提供）。
func Defaults() Config {
	return Config{
		Output: "-",
	}
}

// LoadJSON 从文件路径或原始 JSON 解析 Config（严格拒绝未知字段）。
func LoadJSON(path string, raw []byte) (Config, error) {
	var cfg Config
	var r io.Reader
	switch {
	case len(raw) > 0:
		r = bytes.NewReader(raw)
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		r = f
	default:
		return cfg, errors.New("no config source provided")
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Merge 按优先级合并（后者覆盖前者）。
// 仅标量/字符串为“替换”；不做深度合并。
// 特殊：FromText 为真时连同 Text 整体覆盖（Text 可为空串）。
func Merge(base, over Config) Config {
	out := base
	if len(over.Inputs) > 0 {
		out.Inputs = cloneStrings(over.Inputs)
	}
	if over.FromText {
		out.FromText = true
		out.Text = over.Text
	}
	if over.Delimiter != "" {
		out.Delimiter = over.Delimiter
	}
	if strings.TrimSpace(over.Output) != "" {
		out.Output = over.Output
	}
	if strings.TrimSpace(over.Logging.Level) != "" {
		out.Logging.Level = strings.TrimSpace(over.Logging.Level)
	}
	return out
}

// EnvOverlay 从环境变量构建一个 Config 覆盖（仅解析有限键集合）。
// 规则：前缀 DELIMSPLIT_；本集合之外的键忽略。
// 支持：INPUTS, TEXT, DELIMITER, OUTPUT, LOG_LEVEL
// 分隔符/文本取环境变量值的原始字节，不做转义处理。
func EnvOverlay(environ []string) (Config, error) {
	var over Config
	for _, kv := range environ {
		if !strings.HasPrefix(kv, "DELIMSPLIT_") {
			continue
		}
		eq := strings.IndexByte(kv, '=')
		if eq <= len("DELIMSPLIT_") {
			continue
		}
		key := kv[:eq]
		val := kv[eq+1:]
		switch strings.TrimPrefix(key, "DELIMSPLIT_") {
		case "INPUTS":
			if val != "" {
				over.Inputs = splitComma(val)
			}
		case "TEXT":
			if val != "" {
				over.Text = val
				over.FromText = true
			}
		case "DELIMITER":
			if val != "" {
				over.Delimiter = val
			}
		case "OUTPUT":
			if strings.TrimSpace(val) != "" {
				over.Output = val
			}
		case "LOG_LEVEL":
			over.Logging.Level = strings.TrimSpace(val)
		}
	}
	return over, nil
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func splitComma(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
