package config

import (
	"time"

	platformaws "github.com/deltahdl/driftgate/internal/adapters/platform/aws"
	"github.com/deltahdl/driftgate/internal/log"
	"github.com/deltahdl/driftgate/internal/reporting/text"
)

type Config struct {
	Settings SettingsConfig `yaml:"settings" mapstructure:"settings"`
	Check    CheckConfig    `yaml:"check" mapstructure:"check"`
	Serve    ServeConfig    `yaml:"serve" mapstructure:"serve"`
	Platform PlatformConfig `yaml:"platform" mapstructure:"platform"`
}

type SettingsConfig struct {
	LogLevel     log.Level       `yaml:"log_level" mapstructure:"log_level"`
	LogFormat    log.Format      `yaml:"log_format" mapstructure:"log_format"`
	Concurrency  int             `yaml:"concurrency" mapstructure:"concurrency" validate:"omitempty,min=1,max=64"`
	ProbeTimeout time.Duration   `yaml:"probe_timeout" mapstructure:"probe_timeout"`
	ReporterType string          `yaml:"reporter" mapstructure:"reporter" validate:"omitempty,oneof=text json"`
	Reporter     ReporterConfigs `yaml:"reporter_config" mapstructure:"reporter_config"`
}

type CheckConfig struct {
	Directory   string        `yaml:"directory" mapstructure:"directory"`
	PlanSource  string        `yaml:"plan_source" mapstructure:"plan_source" validate:"omitempty,oneof=exec file"`
	PlanFile    string        `yaml:"plan_file" mapstructure:"plan_file"`
	TofuBinary  string        `yaml:"tofu_binary" mapstructure:"tofu_binary"`
	PlanTimeout time.Duration `yaml:"plan_timeout" mapstructure:"plan_timeout"`
}

type ServeConfig struct {
	Listen    string `yaml:"listen" mapstructure:"listen"`
	TargetURL string `yaml:"target_url" mapstructure:"target_url"`
}

type PlatformConfig struct {
	AWS *platformaws.ProviderConfig `yaml:"aws,omitempty" mapstructure:"aws"`
}

type ReporterConfigs struct {
	Text *text.Config `yaml:"text,omitempty" mapstructure:"text"`
}

const (
	PlanSourceExec = "exec"
	PlanSourceFile = "file"
)

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:     log.LevelInfo,
			LogFormat:    log.FormatText,
			Concurrency:  4,
			ProbeTimeout: 10 * time.Second,
			ReporterType: text.ReporterTypeText,
			Reporter: ReporterConfigs{
				Text: &text.Config{NoColor: false},
			},
		},
		Check: CheckConfig{
			PlanSource:  PlanSourceExec,
			TofuBinary:  "tofu",
			PlanTimeout: 2 * time.Minute,
		},
		Serve: ServeConfig{
			Listen: "127.0.0.1:8301",
		},
		Platform: PlatformConfig{
			AWS: &platformaws.ProviderConfig{},
		},
	}
}
