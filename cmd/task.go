package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sul-dlss/ld4p-deploy/pkg/hooks"
)

var taskCmd = &cobra.Command{
	Use:   "task <name> [args...]",
	Short: "Run one task on demand",
	Long: `Runs a configured task on each host of its roles without firing an event.
Arguments replace the task's default arguments.`,
	Example: `ld4p-deploy task deploy:run_test
ld4p-deploy task deploy:run_test many_records.mrc`,
	Args: cobra.MinimumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		if !configLoaded {
			if err := initConfig(cmd); err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
		}
		return hooks.NewRegistry(deployConfig.Tasks).TaskNames(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner(&deployConfig)
		if err != nil {
			return withHints(err)
		}

		report, err := runner.RunTask(cmd.Context(), args[0], args[1:]...)
		printReport(cmd.OutOrStdout(), report, err)
		return withHints(err)
	},
}

func init() {
	RootCmd.AddCommand(taskCmd)
}
