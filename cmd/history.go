package cmd

import (
	"github.com/spf13/cobra"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs",
	Long: `Lists the most recent event fires and task runs, newest first.
Requires 'history.enabled'. The in-memory store only holds the runs of the
current process, so use the redis store to keep history between runs.`,
	Example: "ld4p-deploy history --limit 10",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := openHistory(&deployConfig)
		if err != nil {
			return withHints(err)
		}
		if history == nil {
			return errUtils.Build(errUtils.ErrHistoryDisabled).
				WithHint("Set 'history.enabled: true' and 'history.type: redis' in deploy.yaml").
				Err()
		}
		deferCleanup(history.Close)

		limit, _ := cmd.Flags().GetInt("limit")
		records, err := history.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		printHistory(cmd.OutOrStdout(), records)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "How many runs to show. 0 shows every stored run")
	RootCmd.AddCommand(historyCmd)
}
