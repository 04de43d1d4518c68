package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deltahdl/driftgate/internal/app"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that no planned create collides with a live AWS resource.",
	Long: `check runs a dry-run plan against the configuration root, probes AWS for
every resource the plan would create, and fails if any already exists
outside tracked state or cannot be verified. A stack with no prior state
passes without probing (bootstrap).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, logger, err := app.LoadConfig(ctx, viper.GetViper())
		if err != nil {
			reportRunError(err)
			return err
		}

		engine, err := app.BuildCheckEngine(ctx, cfg, logger)
		if err != nil {
			reportRunError(err)
			return err
		}

		application := app.NewApplication(engine, logger)
		if err := application.Run(ctx); err != nil {
			reportRunError(err)
			return err
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().String("dir", "", "Configuration root of the OpenTofu stack")
	checkCmd.Flags().String("region", "", "Target AWS region")
	checkCmd.Flags().String("plan-source", "", "Plan source: exec (run tofu) or file (pre-rendered JSON)")
	checkCmd.Flags().String("plan-file", "", "Path to a 'tofu show -json' document (with --plan-source=file)")
	checkCmd.Flags().String("tofu-bin", "", "Path to the tofu binary (default: tofu)")
	checkCmd.Flags().String("reporter", "", "Report format: text or json")

	viper.BindPFlag("check.directory", checkCmd.Flags().Lookup("dir"))
	viper.BindPFlag("platform.aws.region", checkCmd.Flags().Lookup("region"))
	viper.BindPFlag("check.plan_source", checkCmd.Flags().Lookup("plan-source"))
	viper.BindPFlag("check.plan_file", checkCmd.Flags().Lookup("plan-file"))
	viper.BindPFlag("check.tofu_binary", checkCmd.Flags().Lookup("tofu-bin"))
	viper.BindPFlag("settings.reporter", checkCmd.Flags().Lookup("reporter"))

	rootCmd.AddCommand(checkCmd)
}
