package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/taskboard/internal/repository"
)

func resetSessionCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-session",
		Short: "Clear the persisted current-user marker",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := repo.Remove(cmd.Context(), repository.KeyCurrentUser); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared")
			return nil
		},
	}
}
