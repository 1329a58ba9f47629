package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port       int    `yaml:"port"`
		DataDir    string `yaml:"data_dir"`
		ReportsDir string `yaml:"reports_dir"`
	} `yaml:"app"`

	API struct {
		BaseURL          string `yaml:"base_url"`
		UserAgent        string `yaml:"user_agent"`
		PerPage          int    `yaml:"per_page"`
		TimeoutSeconds   int    `yaml:"timeout_seconds"`
		ItemDelayMillis  int    `yaml:"item_delay_ms"`
		PageDelaySeconds int    `yaml:"page_delay_seconds"`
	} `yaml:"api"`

	Search struct {
		Pages          int    `yaml:"pages"`
		PeriodDays     int    `yaml:"period_days"`
		OnlyWithSalary bool   `yaml:"only_with_salary"`
		OrderBy        string `yaml:"order_by"`
	} `yaml:"search"`
}

// Default returns the built-in configuration. It is also what gets written
// to disk on first start, so every field should carry a usable value.
func Default() Config {
	var cfg Config
	cfg.App.Port = 38472
	cfg.App.ReportsDir = "reports"
	cfg.API.BaseURL = "https://api.hh.ru"
	cfg.API.UserAgent = "JobInsights/1.0 (+local)"
	cfg.API.PerPage = 100
	cfg.API.TimeoutSeconds = 20
	cfg.API.ItemDelayMillis = 500
	cfg.API.PageDelaySeconds = 5
	cfg.Search.Pages = 10
	cfg.Search.PeriodDays = 365
	cfg.Search.OrderBy = "relevance"
	return cfg
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
