package cmd

import (
	"github.com/spf13/cobra"
)

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Fetch one room by path or absolute URL",
		Example: `  rooms get rooms/42
  rooms get https://api.example.org/v1/rooms/42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := opts.queryParams()
			if err != nil {
				return err
			}
			client, err := opts.newClient(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			room, err := client.Get(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), room)
		},
	}
}
