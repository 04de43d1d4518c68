package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/deltahdl/driftgate/internal/adapters/plan/tofu"
	platformaws "github.com/deltahdl/driftgate/internal/adapters/platform/aws"
	"github.com/deltahdl/driftgate/internal/adapters/state/backend"
	"github.com/deltahdl/driftgate/internal/config"
	"github.com/deltahdl/driftgate/internal/core/ports"
	"github.com/deltahdl/driftgate/internal/core/service"
	"github.com/deltahdl/driftgate/internal/errors"
	"github.com/deltahdl/driftgate/internal/log"
	jsonreport "github.com/deltahdl/driftgate/internal/reporting/json"
	"github.com/deltahdl/driftgate/internal/reporting/text"
)

// LoadConfig unmarshals and validates the layered viper configuration.
func LoadConfig(ctx context.Context, v *viper.Viper) (*config.Config, ports.Logger, error) {
	cfg := config.DefaultConfig()
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeConfigParseError, "failed to unmarshal configuration")
	}

	logger, err := log.NewLogger(log.Config{Level: cfg.Settings.LogLevel, Format: cfg.Settings.LogFormat})
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	logger.Debugf(ctx, "Logger initialized (Level: %s, Format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(ctx, cfg); err != nil {
		var details strings.Builder
		details.WriteString("Configuration validation failed:")
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range validationErrors {
				details.WriteString(fmt.Sprintf("\n - Field '%s': failed '%s' validation (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
			}
		}
		wrappedErr := errors.NewUserFacing(errors.CodeConfigValidation, details.String(), "Check your configuration file or flags.")
		logger.Errorf(ctx, wrappedErr, "Configuration validation failed")
		return nil, nil, wrappedErr
	}

	return cfg, logger, nil
}

// BuildCheckEngine wires the drift-check pipeline: backend discovery, plan
// source, AWS probers, reporter.
func BuildCheckEngine(ctx context.Context, cfg *config.Config, logger ports.Logger) (ports.CheckEngine, error) {
	if cfg.Check.Directory == "" {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation, "no configuration root given", "Pass --dir pointing at the OpenTofu stack.")
	}
	if cfg.Platform.AWS == nil || cfg.Platform.AWS.Region == "" {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation, "no target region given", "Pass --region or set platform.aws.region.")
	}

	awsCfg, err := platformaws.LoadAWSConfig(ctx, cfg.Platform.AWS.Region)
	if err != nil {
		return nil, err
	}

	provider, err := platformaws.NewProvider(awsCfg, *cfg.Platform.AWS, logger.WithFields(map[string]any{"provider": platformaws.ProviderTypeAWS}))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigValidation, "failed to initialize AWS provider")
	}

	registry := service.NewProberRegistry()
	for _, prober := range provider.Probers() {
		if err := registry.Register(prober); err != nil {
			return nil, err
		}
	}
	logger.Debugf(ctx, "Registered %d existence probers", len(registry.Kinds()))

	spec, err := backend.Discover(ctx, cfg.Check.Directory, logger)
	if err != nil {
		return nil, err
	}
	var locator ports.StateLocator
	switch {
	case spec != nil && spec.Type == "s3":
		locator, err = backend.NewS3StateLocator(awsCfg, spec)
		if err != nil {
			return nil, err
		}
		logger.Infof(ctx, "State lives in s3://%s/%s", spec.StringAttr("bucket"), spec.StringAttr("key"))
	case spec == nil || spec.Type == "local":
		locator = backend.NewLocalStateLocator(cfg.Check.Directory, spec)
		logger.Infof(ctx, "State lives on local disk")
	default:
		return nil, errors.NewUserFacing(errors.CodeBackendParseError,
			fmt.Sprintf("unsupported backend type %q", spec.Type), "Supported: s3, local.")
	}

	var planner ports.Planner
	switch cfg.Check.PlanSource {
	case config.PlanSourceFile:
		planner, err = tofu.NewFilePlanner(tofu.FileConfig{Path: cfg.Check.PlanFile}, logger)
	case config.PlanSourceExec:
		planner, err = tofu.NewExecPlanner(tofu.ExecConfig{
			Directory: cfg.Check.Directory,
			Binary:    cfg.Check.TofuBinary,
			Timeout:   cfg.Check.PlanTimeout,
		}, logger)
	default:
		err = errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported plan source %q", cfg.Check.PlanSource), "Supported: exec, file.")
	}
	if err != nil {
		return nil, err
	}
	logger.Infof(ctx, "Using %s planner", planner.Type())

	reporter, err := buildReporter(cfg, logger)
	if err != nil {
		return nil, err
	}

	return service.NewCheckEngine(
		locator,
		planner,
		registry,
		reporter,
		logger.WithFields(map[string]any{"component": "engine"}),
		cfg.Settings.Concurrency,
		cfg.Settings.ProbeTimeout,
	)
}

func buildReporter(cfg *config.Config, logger ports.Logger) (ports.Reporter, error) {
	switch cfg.Settings.ReporterType {
	case text.ReporterTypeText, "":
		textCfg := cfg.Settings.Reporter.Text
		if textCfg == nil {
			textCfg = config.DefaultConfig().Settings.Reporter.Text
		}
		return text.NewReporter(*textCfg, logger.WithFields(map[string]any{"component": "reporter"}))
	case jsonreport.ReporterTypeJSON:
		return jsonreport.NewReporter(jsonreport.Config{}, logger.WithFields(map[string]any{"component": "reporter"}))
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported reporter type %q", cfg.Settings.ReporterType), "Supported: text, json.")
	}
}
