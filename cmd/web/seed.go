package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vineai/website/internal/store"
)

func newSeedCmd(a *app) *cobra.Command {
	var db string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the default content into the SQLite document store",
		Long: `Writes the home page, team members and posts of the default content into the
document store at --db. Documents with the same id are replaced, so seeding twice is safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := strings.TrimSpace(db)
			if path == "" {
				path = a.cfg.Store.Path
			}
			if path == "" {
				return fmt.Errorf("seed: --db or WEB_STORE_PATH required")
			}

			d, err := loadDefaults(a.cfg.Content.Dir)
			if err != nil {
				return err
			}
			st, err := store.Open(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := st.Seed(cmd.Context(), d)
			if err != nil {
				return err
			}
			a.logger.Info("store seeded", zap.String("path", st.Path()), zap.Int("documents", n))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d documents into %s\n", n, st.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "SQLite database path; defaults to WEB_STORE_PATH")
	return cmd
}
