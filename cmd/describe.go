package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Show details about the deploy configuration",
}

var describeConfigCmd = &cobra.Command{
	Use:     "config",
	Short:   "Show the merged deploy configuration",
	Long:    `This command shows the final (deep-merged) configuration: ld4p-deploy describe config`,
	Example: "ld4p-deploy describe config -f json",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		var out []byte
		var err error
		switch format {
		case "yaml":
			out, err = yaml.Marshal(&deployConfig)
		case "json":
			out, err = json.MarshalIndent(&deployConfig, "", "  ")
			out = append(out, '\n')
		default:
			return errUtils.Build(fmt.Errorf("%w: %q", errUtils.ErrInvalidFormat, format)).
				WithHint("Use '--format yaml' or '--format json'").
				Err()
		}
		if err != nil {
			return err
		}

		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	describeConfigCmd.Flags().StringP("format", "f", "yaml", "The output format: ld4p-deploy describe config -f yaml|json")
	describeCmd.AddCommand(describeConfigCmd)
	RootCmd.AddCommand(describeCmd)
}
