package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yukikurage/taskboard/internal/repository"
	"gopkg.in/yaml.v3"
)

func dumpCmd(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the persisted documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q (want json or yaml)", format)
			}

			repo, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			return dump(cmd.Context(), repo, format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("format", "json", "Output format (json, yaml)")

	return cmd
}

// dump writes every persisted document keyed by its storage key. Absent
// documents are null and undecodable ones are printed verbatim.
func dump(ctx context.Context, repo *repository.CollectionRepository, format string, w io.Writer) error {
	docs := make(map[string]any, len(repository.AllKeys))
	for _, name := range repository.AllKeys {
		raw, err := repo.Raw(ctx, name)
		if errors.Is(err, repository.ErrKeyNotFound) {
			docs[repo.Key(name)] = nil
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", repo.Key(name), err)
		}

		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			docs[repo.Key(name)] = string(raw)
			continue
		}
		docs[repo.Key(name)] = v
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}
}
