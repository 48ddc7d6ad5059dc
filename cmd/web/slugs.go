package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSlugsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "slugs",
		Short: "Print every post slug known to the content source or the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := openContent(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer c.Close()

			for _, slug := range c.service.PostSlugs(cmd.Context()) {
				fmt.Fprintln(cmd.OutOrStdout(), slug)
			}
			return nil
		},
	}
}
