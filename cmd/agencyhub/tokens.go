package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTokensCmd(load configLoader) *cobra.Command {
	tokensCmd := &cobra.Command{Use: "tokens", Short: "Mantenimiento de refresh tokens"}

	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Borra los refresh tokens vencidos y termina",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.close()

			n, err := a.auth.CleanupExpiredTokens(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed=%d\n", n)
			return nil
		},
	}

	tokensCmd.AddCommand(cleanupCmd)
	return tokensCmd
}
