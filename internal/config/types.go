package config

// Config: 运行期只读配置（一次解析，运行期不变）。
// JSON 使用 snake_case；未知字段在解析期失败。
type Config struct {
	// Inputs: 输入根（文件路径或 "-" 表示 STDIN）。与 Text 互斥。
	Inputs []string `json:"inputs"`
	// Text: 直接给定的待切分文本。
	Text string `json:"text"`
	// FromText: 显式声明以 Text 为输入（允许 Text 为空串）。
	FromText bool `json:"from_text"`
	// Delimiter: 字面分隔符；不得为空。
	Delimiter string `json:"delimiter"`
	// Output: 输出目标；"-" 表示 stdout，否则为文件路径。
	Output  string  `json:"output"`
	Logging Logging `json:"logging"`
}

// Logging: 仅保留日志等级可配置。
type Logging struct {
	Level string `json:"level"`
}
