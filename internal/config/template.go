package config

// DefaultTemplateConfig 返回一个“可运行”的默认配置模板：
// - 默认输入为 STDIN（"-"），输出到 stdout；
// - 分隔符为换行（逐行切分，本地调试友好）；
// - 日志等级 info。
func DefaultTemplateConfig() Config {
	d := Defaults()
	return Config{
		Inputs:    []string{"-"},
		Delimiter: "\n",
		Output:    d.Output,
		Logging:   Logging{Level: "info"},
	}
}
