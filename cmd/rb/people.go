package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newPeopleCmd(e *env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "people",
		Short: "Person facets offered on the image tabs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.FetchTimeout())
			defer cancel()

			if limit <= 0 {
				limit = e.cfg.API.PeopleLimit
			}
			people, err := e.client.People(ctx, limit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if ok, err := encode(w, e.output, people); ok {
				return err
			}
			if len(people) == 0 {
				fmt.Fprintln(w, mutedStyle.Render("No people."))
				return nil
			}
			t := newTable("NAME", "DOCUMENTS")
			for _, p := range people {
				t.Row(p.Name, formatCount(p.DocCount))
			}
			fmt.Fprintln(w, t.Render())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of people (default from config)")
	return cmd
}
