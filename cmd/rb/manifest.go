package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abelbrown/releasebase/internal/merge"
)

func newManifestCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "List the curated assets the browser prepends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.FetchTimeout())
			defer cancel()

			m, err := e.client.Manifest(ctx)
			if err != nil {
				return err
			}
			images, audio := merge.Curated(m)

			w := cmd.OutOrStdout()
			if ok, err := encode(w, e.output, m); ok {
				return err
			}
			t := newTable("ID", "TITLE", "PATH")
			for _, it := range append(images, audio...) {
				t.Row(it.ID, truncate(it.Title, 48), it.URL)
			}
			fmt.Fprintln(w, t.Render())
			return nil
		},
	}
}
