package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cfgpkg "delimsplit/internal/config"
	"delimsplit/internal/diag"
	"delimsplit/internal/pipeline"
)

var pipelineRun = pipeline.Run

// 简化的 CLI：默认子命令 run。
// 位置参数为输入根（文件 或 "-" 表示 STDIN，不能与其他根混用）。
// 全局旗标（最小集）：--config, --delimiter, --text, --out
func main() {
	os.Exit(run())
}

func run() int {
	start := time.Now()
	corrID := genCorrID()
	// 从配置读取日志级别；默认 info
	logLevel := "info"
	// 先占位默认，稍后在解析/合并配置后重建 logger 以使用最终 level
	logger := diag.NewLogger(corrID, logLevel)
	// flags
	var (
		flagConfig    string
		flagDelimiter string
		flagText      string
		flagOut       string
		flagInitDir   string
	)
	flag.StringVar(&flagConfig, "config", "", "配置文件路径（JSON）；缺省读取 ./config.json（若存在）")
	flag.StringVar(&flagDelimiter, "delimiter", "", "字面分隔符（覆盖配置）；不得为空")
	flag.StringVar(&flagText, "text", "", "直接切分给定文本（与位置参数互斥；允许空串）")
	flag.StringVar(&flagOut, "out", "", "输出目标；\"-\" 表示 stdout（覆盖配置）")
	flag.StringVar(&flagInitDir, "init-config", "", "在指定目录生成默认配置 config.json（若已存在则跳过，不覆盖）；不带值时默认当前目录")
	normalizeInitArg()
	flag.Parse()

	// --text 显式给出时才进入文本模式（空串是合法文本）
	textSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "text" {
			textSet = true
		}
	})

	// roots（位置参数）
	roots := flag.Args()

	// --init-config: 生成模板并退出
	var initDir string
	if strings.TrimSpace(flagInitDir) != "" {
		initDir = strings.TrimSpace(flagInitDir)
	}
	if initDir != "" {
		// 创建目录（若不存在）
		if err := os.MkdirAll(initDir, 0o755); err != nil {
			fprintf(os.Stderr, "生成默认配置失败: %v\n", err)
			logger.Error("cli", string(diag.Classify(err)), "first error", &start)
			return 3
		}
		cfgPath := filepath.Join(initDir, "config.json")
		if err := writeConfig(cfgPath, cfgpkg.DefaultTemplateConfig()); err != nil {
			fprintf(os.Stderr, "生成默认配置失败: %v\n", err)
			logger.Error("cli", string(diag.Classify(err)), "first error", &start)
			return 3
		}
		return 0
	}

	// JSON 配置（文件或 ENV: DELIMSPLIT_CONFIG_JSON）
	var cfgJSON []byte
	if s := os.Getenv("DELIMSPLIT_CONFIG_JSON"); s != "" {
		cfgJSON = []byte(s)
	}
	if flagConfig == "" {
		if s := os.Getenv("DELIMSPLIT_CONFIG_FILE"); s != "" {
			flagConfig = s
		}
	}
	// 默认读取工作目录下 config.json（若存在）
	if flagConfig == "" {
		if _, err := os.Stat("config.json"); err == nil {
			flagConfig = "config.json"
		}
	}

	cfg := cfgpkg.Defaults()
	if flagConfig != "" || len(cfgJSON) > 0 {
		base, err := cfgpkg.LoadJSON(flagConfig, cfgJSON)
		if err != nil {
			fprintf(os.Stderr, "配置解析失败: %v\n", err)
			logger.Error("cli", string(diag.Classify(err)), "first error", &start)
			return 3
		}
		cfg = cfgpkg.Merge(cfg, base)
	}

	// ENV 覆盖（最小集合）
	overEnv, err := cfgpkg.EnvOverlay(os.Environ())
	if err != nil {
		fprintf(os.Stderr, "环境变量解析失败: %v\n", err)
		logger.Error("cli", string(diag.Classify(err)), "first error", &start)
		return 3
	}
	cfg = cfgpkg.Merge(cfg, overEnv)

	// CLI 覆盖
	var overCLI cfgpkg.Config
	if flagDelimiter != "" {
		overCLI.Delimiter = flagDelimiter
	}
	if flagOut != "" {
		overCLI.Output = flagOut
	}
	if textSet {
		overCLI.Text = flagText
		overCLI.FromText = true
	}
	if len(roots) > 0 {
		overCLI.Inputs = roots
	}
	cfg = cfgpkg.Merge(cfg, overCLI)

	// 文本模式下丢弃配置文件遗留的 inputs（CLI 显式意图优先）；
	// 显式同时给出 --text 与位置参数则留给 Validate 报互斥。
	if textSet && len(roots) == 0 {
		cfg.Inputs = nil
	}

	// 基本校验
	if err := cfgpkg.Validate(cfg); err != nil {
		fprintf(os.Stderr, "配置校验失败: %v\n", err)
		// 提示打印有效配置，便于诊断
		_ = dumpConfig(cfg)
		logger.Error("cli", string(diag.Classify(err)), "first error", &start)
		return 3
	}

	// 使用最终配置中的日志级别重建 logger
	if strings.TrimSpace(cfg.Logging.Level) != "" {
		logLevel = strings.TrimSpace(cfg.Logging.Level)
	}
	logger = diag.NewLogger(corrID, logLevel)

	// 预检：输出为文件路径时检查目标目录可写性
	if err := preflightCheckOutput(cfg); err != nil {
		fprintf(os.Stderr, "输出目录不可写或不存在: %v\n", err)
		logger.Error("cli", string(diag.Classify(err)), "first error", &start)
		return 3
	}

	// debug: 输出运行时配置信息
	logger.DebugStart("config", "effective", map[string]string{
		"inputs_count": fmt.Sprintf("%d", len(cfg.Inputs)),
		"from_text":    fmt.Sprintf("%t", cfg.FromText),
		"delim_bytes":  fmt.Sprintf("%d", len(cfg.Delimiter)),
		"output":       cfg.Output,
	})

	// 输出端点
	comp := pipeline.Components{}
	if cfg.Output != "-" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			fprintf(os.Stderr, "打开输出失败: %v\n", err)
			logger.Error("cli", string(diag.Classify(err)), "first error", &start)
			return 3
		}
		defer f.Close()
		comp.Out = f
	}
	set := pipeline.Settings{
		Inputs:    cfg.Inputs,
		Text:      cfg.Text,
		FromText:  cfg.FromText,
		Delimiter: cfg.Delimiter,
	}

	// 运行切分
	t := logger.Start("pipeline", "run")
	if err := pipelineRun(context.Background(), comp, set, logger); err != nil {
		logger.Error("pipeline", string(diag.Classify(err)), "first error", &start)
		if !errors.Is(err, context.Canceled) {
			fprintf(os.Stderr, "运行失败: %v\n", err)
		}
		return 1
	}
	if t != nil {
		t.Finish("run", 0)
	}
	return 0
}

func fprintf(w *os.File, format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

func dumpConfig(c cfgpkg.Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	_, _ = os.Stderr.Write(append([]byte("有效配置:\n"), b...))
	_, _ = os.Stderr.Write([]byte("\n"))
	return nil
}

func writeConfig(path string, c cfgpkg.Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = os.Stdout.Write(append(b, '\n'))
		return err
	}
	// 不覆盖已存在文件
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(b); err != nil {
		return err
	}
	_, _ = f.Write([]byte("\n"))
	return nil
}

func genCorrID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}

// normalizeInitArg: 允许 --init-config 在未提供路径值时采用默认值当前目录 "."。
// 兼容以下形式：
//
//	--init-config                => 等价于 --init-config .
//	--init-config=out
//	--init-config out
//
// 仅在检测到“裸开关或后继为下一个开关”的情况下插入默认值。
func normalizeInitArg() {
	args := os.Args
	if len(args) <= 1 {
		return
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, args[0])
	for i := 1; i < len(args); i++ {
		a := args[i]
		out = append(out, a)
		if a == "--init-config" || a == "-init-config" {
			// 若已到末尾，补一个默认值
			if i == len(args)-1 {
				out = append(out, ".")
				continue
			}
			// 若下一个是开关（以 - 开头），则补默认值
			if strings.HasPrefix(args[i+1], "-") {
				out = append(out, ".")
				continue
			}
		}
	}
	os.Args = out
}

// preflightCheckOutput: 当输出为文件路径时，启动前检查目标目录可写性。
// 规则：
// - 目录已存在：尝试创建并删除临时文件；失败则判为不可写。
// - 目录不存在：直接报错（不隐式建目录）。
// 输出为 "-"（stdout）时跳过。
func preflightCheckOutput(cfg cfgpkg.Config) error {
	if strings.TrimSpace(cfg.Output) == "-" {
		return nil
	}
	dir := filepath.Dir(cfg.Output)
	st, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return fmt.Errorf("路径存在但不是目录: %s", dir)
	}
	f, err := os.CreateTemp(dir, ".wcheck-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}
