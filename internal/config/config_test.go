package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"delimsplit/pkg/split"
)

// LoadJSON 解析文件与原始 JSON
func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.json")
	if err := os.WriteFile(path, []byte(`{"delimiter":",","inputs":["-"]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadJSON(path, nil)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if cfg.Delimiter != "," || len(cfg.Inputs) != 1 {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	cfg, err = LoadJSON("", []byte(`{"delimiter":"::"}`))
	if err != nil {
		t.Fatalf("load raw: %v", err)
	}
	if cfg.Delimiter != "::" {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
}

// 未知字段严格拒绝
func TestLoadJSONUnknownField(t *testing.T) {
	if _, err := LoadJSON("", []byte(`{"delimiter":",","bogus":1}`)); err == nil {
		t.Fatalf("expect unknown field error")
	}
}

// 无配置源报错
func TestLoadJSONNoSource(t *testing.T) {
	if _, err := LoadJSON("", nil); err == nil {
		t.Fatalf("expect error")
	}
}

// Merge 覆盖语义
func TestMerge(t *testing.T) {
	base := Defaults()
	base.Delimiter = ","
	base.Inputs = []string{"a.txt"}

	over := Config{Delimiter: "::", Output: "out.txt"}
	got := Merge(base, over)
	if got.Delimiter != "::" || got.Output != "out.txt" || len(got.Inputs) != 1 {
		t.Fatalf("unexpected merge %+v", got)
	}

	// 空覆盖不清空
	got = Merge(base, Config{})
	if got.Delimiter != "," || got.Output != "-" {
		t.Fatalf("empty overlay should keep base: %+v", got)
	}

	// FromText 整体覆盖 Text（允许空串）
	got = Merge(base, Config{FromText: true, Text: ""})
	if !got.FromText || got.Text != "" {
		t.Fatalf("from_text overlay not applied: %+v", got)
	}
}

// EnvOverlay 解析 DELIMSPLIT_ 前缀键集合
func TestEnvOverlay(t *testing.T) {
	over, err := EnvOverlay([]string{
		"DELIMSPLIT_DELIMITER=::",
		"DELIMSPLIT_INPUTS=a.txt, b.txt ,",
		"DELIMSPLIT_OUTPUT=out.txt",
		"DELIMSPLIT_LOG_LEVEL=debug",
		"OTHER_KEY=x",
		"DELIMSPLIT_UNKNOWN=y",
	})
	if err != nil {
		t.Fatalf("overlay: %v", err)
	}
	if over.Delimiter != "::" || over.Output != "out.txt" || over.Logging.Level != "debug" {
		t.Fatalf("unexpected overlay %+v", over)
	}
	if len(over.Inputs) != 2 || over.Inputs[0] != "a.txt" || over.Inputs[1] != "b.txt" {
		t.Fatalf("inputs not parsed: %q", over.Inputs)
	}
}

// DELIMSPLIT_TEXT 设置文本模式
func TestEnvOverlayText(t *testing.T) {
	over, err := EnvOverlay([]string{"DELIMSPLIT_TEXT=a,b"})
	if err != nil {
		t.Fatalf("overlay: %v", err)
	}
	if !over.FromText || over.Text != "a,b" {
		t.Fatalf("text overlay not applied: %+v", over)
	}
}

// Validate 边界
func TestValidate(t *testing.T) {
	ok := Config{Inputs: []string{"-"}, Delimiter: ",", Output: "-"}
	if err := Validate(ok); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	// 空分隔符 → ErrInvalidArgument
	bad := ok
	bad.Delimiter = ""
	if err := Validate(bad); !errors.Is(err, split.ErrInvalidArgument) {
		t.Fatalf("expect ErrInvalidArgument, got %v", err)
	}

	// 无输入
	bad = ok
	bad.Inputs = nil
	if err := Validate(bad); err == nil {
		t.Fatalf("expect inputs error")
	}

	// "-" 与其他根混用
	bad = ok
	bad.Inputs = []string{"-", "a.txt"}
	if err := Validate(bad); err == nil {
		t.Fatalf("expect dash mixing error")
	}

	// 空路径
	bad = ok
	bad.Inputs = []string{" "}
	if err := Validate(bad); err == nil {
		t.Fatalf("expect empty path error")
	}

	// text 与 inputs 互斥
	bad = ok
	bad.FromText = true
	if err := Validate(bad); err == nil {
		t.Fatalf("expect exclusivity error")
	}

	// 文本模式允许空文本
	txt := Config{FromText: true, Text: "", Delimiter: ",", Output: "-"}
	if err := Validate(txt); err != nil {
		t.Fatalf("empty text should be valid: %v", err)
	}

	// 输出为空
	bad = ok
	bad.Output = ""
	if err := Validate(bad); err == nil {
		t.Fatalf("expect output error")
	}
}

// 模板配置应通过校验
func TestDefaultTemplateConfig(t *testing.T) {
	if err := Validate(DefaultTemplateConfig()); err != nil {
		t.Fatalf("template config invalid: %v", err)
	}
}
