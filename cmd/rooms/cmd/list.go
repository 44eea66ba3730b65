package cmd

import (
	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List rooms",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := opts.queryParams()
			if err != nil {
				return err
			}
			// Only send page when asked for; the API picks its own default otherwise.
			if cmd.Flags().Changed("page") {
				params.Page(page)
			}

			client, err := opts.newClient(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			list, err := client.List(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number to retrieve")
	return cmd
}
