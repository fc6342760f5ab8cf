package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"delimsplit/internal/diag"
	"delimsplit/pkg/split"
)

// - 单次运行：按序处理各输入源，首错即止并上抛。
// - 原子组件（split.Split）为同步纯函数；本层只做读入/写出与事件记录。
// - 输出稳定：片段按产出顺序逐行写出，源与源之间不交错。

// Components 聚合运行所需的外部端点。
type Components struct {
	// Stdin: "-" 输入源；为 nil 时使用 os.Stdin。
	Stdin io.Reader
	// Out: 片段输出端；为 nil 时使用 os.Stdout。
	Out io.Writer
}

// Settings 运行期配置（最小必要）。
type Settings struct {
	// Inputs: 文件路径或 "-"（STDIN）。与 FromText 互斥。
	Inputs []string
	// Text/FromText: 直接给定的待切分文本。
	Text     string
	FromText bool
	// Delimiter: 字面分隔符；空值在上游已拒绝，此处二次防护。
	Delimiter string
}

// Run 执行一次完整切分：逐源读入 → split.Split → 逐行写出。
// 约束：
// - 源之间串行；每源一次性读入（核心契约为全文切分，非流式）；
// - ctx 取消在源边界生效；
// - 错误按 %w 包装上抛，由调用方决定退出码。
func Run(ctx context.Context, comp Components, set Settings, logger *diag.Logger) error {
	if err := sanity(set); err != nil {
		return err
	}
	stdin := comp.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	out := comp.Out
	if out == nil {
		out = os.Stdout
	}
	bw := bufio.NewWriter(out)

	if set.FromText {
		if err := splitOne(ctx, "<text>", set.Text, set.Delimiter, bw, logger); err != nil {
			return err
		}
		return bw.Flush()
	}

	for _, root := range set.Inputs {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		text, err := readSource(root, stdin)
		if err != nil {
			if logger != nil {
				logger.ErrorWith("reader", string(diag.Classify(err)), "read failed", nil, root)
			}
			return fmt.Errorf("read %s: %w", root, err)
		}
		if err := splitOne(ctx, root, text, set.Delimiter, bw, logger); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// splitOne 切分单个源并逐行写出片段。
func splitOne(ctx context.Context, source, text, delim string, w *bufio.Writer, logger *diag.Logger) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	t := (*diag.Timer)(nil)
	if logger != nil {
		t = logger.StartWith("splitter", "split", source)
	}
	segs, err := split.Split(text, delim)
	if err != nil {
		if logger != nil {
			logger.ErrorWith("splitter", string(diag.Classify(err)), "split failed", nil, source)
		}
		return fmt.Errorf("split %s: %w", source, err)
	}
	for _, seg := range segs {
		if _, err := w.WriteString(seg); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	if t != nil {
		t.Finish("split", int64(len(segs)))
	}
	return nil
}

// readSource 一次性读入单个源；"-" 表示 STDIN。
func readSource(root string, stdin io.Reader) (string, error) {
	if root == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, err := os.ReadFile(root)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// 防护：Settings 不变量（上游 Validate 已保证；此处仅兜底）。
func sanity(set Settings) error {
	if set.Delimiter == "" {
		return fmt.Errorf("sanity: %w", split.ErrInvalidArgument)
	}
	if !set.FromText && len(set.Inputs) == 0 {
		return errors.New("sanity: no inputs")
	}
	return nil
}
