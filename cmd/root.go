package cmd

import (
	"context"
	"slices"

	"github.com/spf13/cobra"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	"github.com/sul-dlss/ld4p-deploy/pkg/config"
	log "github.com/sul-dlss/ld4p-deploy/pkg/logger"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

var (
	deployConfig schema.DeployConfiguration
	configLoaded bool

	// cleanups run in reverse order from Cleanup.
	cleanups []func() error
)

// commands that work without a deploy configuration.
var configFreeCommands = []string{"version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   config.CliName,
	Short: "Run deployment lifecycle hooks for ld4p-marc21-to-xml",
	Long: `ld4p-deploy runs the tasks bound to deployment lifecycle events on the hosts
of their roles. After a deploy finishes the release is built with maven, and
the MARC21 to MARCXML conversion can be smoke tested on demand.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if slices.Contains(configFreeCommands, cmd.Name()) {
			return nil
		}
		return initConfig(cmd)
	},
}

func init() {
	RootCmd.PersistentFlags().String(config.ConfigFlag, "", "Path to 'deploy.yaml' or to a directory containing it")
	RootCmd.PersistentFlags().String(config.BranchFlag, "", "Branch being deployed. Defaults to the branch checked out in the current directory")
	RootCmd.PersistentFlags().String(config.LogsLevelFlag, "", "Logs level. Supported log levels are Trace, Debug, Info, Warning, Off")
	RootCmd.PersistentFlags().String(config.LogsFileFlag, "", "The file to write logs to, including '/dev/stdout', '/dev/stderr' and '/dev/null'")
	RootCmd.PersistentFlags().Bool(config.DryRunFlag, false, "Log the commands that would run on each host without running them")
}

func initConfig(cmd *cobra.Command) error {
	flags := cmd.Flags()
	opts := config.LoadOptions{}
	opts.ConfigPath, _ = flags.GetString(config.ConfigFlag)
	opts.Branch, _ = flags.GetString(config.BranchFlag)
	opts.LogsLevel, _ = flags.GetString(config.LogsLevelFlag)
	opts.LogsFile, _ = flags.GetString(config.LogsFileFlag)
	opts.DryRun, _ = flags.GetBool(config.DryRunFlag)

	cfg, err := config.LoadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := log.NewLoggerFromConfig(&cfg)
	if err != nil {
		return &errUtils.ConfigurationFailure{Key: "logs", Reason: "cannot set up logging", Cause: err}
	}
	logger.SetReportTimestamp(false)
	log.SetDefault(logger)
	deferCleanup(logger.Close)

	if err := errUtils.InitializeSentry(&cfg.Errors.Sentry); err != nil {
		log.Warn("Error reporting is disabled", "error", err)
	}

	deployConfig = cfg
	configLoaded = true
	log.Debug("Loaded deploy configuration", "file", cfg.CliConfigPath, "application", cfg.Application, "branch", cfg.Branch)
	return nil
}

// Execute runs the root command. Commands observe ctx for cancellation.
func Execute(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}

// Config returns the loaded configuration, or nil when no command loaded one.
func Config() *schema.DeployConfiguration {
	if !configLoaded {
		return nil
	}
	return &deployConfig
}

// RunTags describes the loaded run for error reports. It is empty when no config was loaded.
func RunTags() map[string]string {
	tags := map[string]string{}
	if !configLoaded {
		return tags
	}
	tags["application"] = deployConfig.Application
	if deployConfig.Branch != "" {
		tags["branch"] = deployConfig.Branch
	}
	if deployConfig.DryRun {
		tags["dry_run"] = "true"
	}
	return tags
}

// Cleanup releases what the last command opened. It is safe to call more than once.
func Cleanup() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		if err := cleanups[i](); err != nil {
			log.Debug("Cleanup failed", "error", err)
		}
	}
	cleanups = nil
	errUtils.CloseSentry()
}

func deferCleanup(fn func() error) {
	cleanups = append(cleanups, fn)
}
