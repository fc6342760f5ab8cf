package diag

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// 级别定义
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Logger 为最小结构化日志器：单行 JSON 输出到 stderr，支持级别过滤。
// 一次性运行（CLI 滤镜）不落盘，不轮转。
type Logger struct {
	corrID string
	level  Level
	out    io.Writer
	mu     sync.Mutex
}

// NewLogger 通过配置的 level 初始化；输出固定为 stderr。
func NewLogger(corrID, level string) *Logger {
	return &Logger{corrID: corrID, level: parseLevel(strings.TrimSpace(level)), out: os.Stderr}
}

func parseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return Debug
	case "warn":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

// Event 为标准事件结构。
type Event struct {
	Level  string            `json:"level"`
	TS     string            `json:"ts"`
	CorrID string            `json:"corr_id"`
	Comp   string            `json:"comp"`
	Stage  string            `json:"stage"` // start|finish|error
	Code   string            `json:"code,omitempty"`
	DurMS  int64             `json:"dur_ms,omitempty"`
	Count  int64             `json:"count,omitempty"`
	Source string            `json:"source,omitempty"`
	Msg    string            `json:"msg"`
	KV     map[string]string `json:"kv,omitempty"`
}

// log 以最小开销写出事件，遵循级别过滤；error 永不过滤。
func (l *Logger) log(lv Level, ev Event) {
	if lv < l.level {
		return
	}
	ev.Level = lv.String()
	ev.TS = NowUTC()
	ev.CorrID = l.corrID
	b, _ := json.Marshal(ev)
	l.mu.Lock()
	defer l.mu.Unlock()
	w := l.out
	if w == nil {
		w = os.Stderr
	}
	_, _ = w.Write(append(b, '\n'))
}

// Start 记录 start 事件；返回计时器用于 Finish。
func (l *Logger) Start(comp, msg string) *Timer {
	l.log(Info, Event{Comp: comp, Stage: "start", Msg: msg})
	return &Timer{l: l, comp: comp, t0: time.Now()}
}

// StartWith 记录带 source 的 start。
func (l *Logger) StartWith(comp, msg, source string) *Timer {
	l.log(Info, Event{Comp: comp, Stage: "start", Source: source, Msg: msg})
	return &Timer{l: l, comp: comp, source: source, t0: time.Now()}
}

// Error 记录 error 事件（不过滤）。
func (l *Logger) Error(comp, code, msg string, durSince *time.Time) {
	var dur int64
	if durSince != nil {
		dur = time.Since(*durSince).Milliseconds()
	}
	l.log(Error, Event{Comp: comp, Stage: "error", Code: code, DurMS: dur, Msg: msg})
}

// ErrorWith 支持 source。
func (l *Logger) ErrorWith(comp, code, msg string, durSince *time.Time, source string) {
	var dur int64
	if durSince != nil {
		dur = time.Since(*durSince).Milliseconds()
	}
	l.log(Error, Event{Comp: comp, Stage: "error", Code: code, DurMS: dur, Msg: msg, Source: source})
}

// DebugStart 输出调试级别的事件（仅在 level=debug 时生效）。
func (l *Logger) DebugStart(comp, msg string, kv map[string]string) {
	l.log(Debug, Event{Comp: comp, Stage: "start", Msg: msg, KV: kv})
}

// Timer 用于 start→finish 计时。
type Timer struct {
	l      *Logger
	comp   string
	source string
	t0     time.Time
}

// Finish 记录 finish；count 为产出片段数等可选计数。
func (t *Timer) Finish(msg string, count int64) {
	if t == nil || t.l == nil {
		return
	}
	t.l.log(Info, Event{Comp: t.comp, Stage: "finish", DurMS: time.Since(t.t0).Milliseconds(), Count: count, Source: t.source, Msg: msg})
}
