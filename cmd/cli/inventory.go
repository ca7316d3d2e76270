package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInventoryCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Print the filtered blog post URLs found in the sitemaps",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := a.service().Inventory(cmd.Context())
			if err != nil {
				return err
			}
			w, closeFn, err := openOutput(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			defer closeFn()
			for _, u := range res.URLs {
				fmt.Fprintln(w, u)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
