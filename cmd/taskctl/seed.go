package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/taskboard/internal/seed"
)

func seedCmd(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the demo workspace if no users exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			repo, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := seed.Run(cmd.Context(), repo, seed.Options{Force: force}, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !res.Seeded {
				fmt.Fprintln(out, "Users already exist; nothing seeded (use --force to overwrite)")
				return nil
			}
			fmt.Fprintf(out, "Seeded %d users, %d projects, %d tasks\n", res.Users, res.Projects, res.Tasks)
			fmt.Fprintf(out, "Demo login: %s / %s\n", seed.DemoEmail, seed.DemoPassword)
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Overwrite existing collections")

	return cmd
}
