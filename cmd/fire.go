package cmd

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/sul-dlss/ld4p-deploy/pkg/hooks"
)

var fireCmd = &cobra.Command{
	Use:   "fire <event>",
	Short: "Fire a lifecycle event",
	Long: `Runs every task bound to the event, in the order the hooks are configured,
on each host of the task's roles. The first failing command stops the run.`,
	Example: "ld4p-deploy fire deploy.finished",
	Args:    cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return lo.Map(hooks.Events, func(ev hooks.HookEvent, _ int) string { return string(ev) }), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner(&deployConfig)
		if err != nil {
			return withHints(err)
		}

		report, err := runner.Fire(cmd.Context(), args[0])
		printReport(cmd.OutOrStdout(), report, err)
		return withHints(err)
	},
}

func init() {
	RootCmd.AddCommand(fireCmd)
}
