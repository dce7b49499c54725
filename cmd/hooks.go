package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sul-dlss/ld4p-deploy/pkg/hooks"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Inspect lifecycle hook bindings",
}

var hooksListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the tasks bound to each lifecycle event",
	Example: "ld4p-deploy hooks list --all",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := hooks.NewRegistryFromConfig(&deployConfig)
		if err != nil {
			return withHints(err)
		}

		describe := func(name string) string {
			task, _ := registry.Task(name)
			return task.Description
		}
		printBindings(cmd.OutOrStdout(), registry.Bindings(), describe)

		if all, _ := cmd.Flags().GetBool("all"); all {
			rows := make([][]string, 0)
			for _, name := range registry.TaskNames() {
				task, _ := registry.Task(name)
				rows = append(rows, []string{name, strings.Join(task.Roles, ","), task.Command, task.Description})
			}
			renderTable(cmd.OutOrStdout(), []string{"Task", "Roles", "Command", "Description"}, rows, -1)
		}
		return nil
	},
}

func init() {
	hooksListCmd.Flags().BoolP("all", "a", false, "Also list every configured task, bound or not")
	hooksCmd.AddCommand(hooksListCmd)
	RootCmd.AddCommand(hooksCmd)
}
