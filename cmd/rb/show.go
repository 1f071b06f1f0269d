package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abelbrown/releasebase/internal/api"
	"github.com/abelbrown/releasebase/internal/catalog"
	"github.com/abelbrown/releasebase/internal/normalize"
)

func newShowCmd(e *env) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one document with full detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.FetchTimeout())
			defer cancel()

			body, err := e.client.Document(ctx, args[0])
			if api.IsNotFound(err) {
				return fmt.Errorf("document %s not found", args[0])
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if raw {
				var v any
				if err := json.Unmarshal(body, &v); err != nil {
					return err
				}
				_, err := encode(w, "json", v)
				return err
			}

			var rec normalize.RawItem
			if err := json.Unmarshal(body, &rec); err != nil {
				return fmt.Errorf("decode document %s: %w", args[0], err)
			}
			item, err := e.normalizer.Normalize(rec)
			if err != nil {
				return fmt.Errorf("document %s: %w", args[0], err)
			}

			if ok, err := encode(w, e.output, item); ok {
				return err
			}
			printItem(w, item)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the backend record as received")
	return cmd
}

func printItem(w io.Writer, it catalog.Item) {
	printTitle(w, displayTitle(it))
	fields := [][2]string{
		{"ID", it.ID},
		{"Type", string(it.Type)},
		{"Source", it.Source},
		{"Date", it.Date},
		{"URL", it.URL},
		{"Thumbnail", it.ThumbnailURL},
		{"People", strings.Join(it.People, ", ")},
		{"Description", it.Description},
		{"Context", it.Context},
		{"Duration", it.Duration},
		{"Location", it.Location},
		{"Format", it.Format},
		{"Count", it.Count},
		{"From", it.From},
		{"To", it.To},
		{"CC", it.CC},
		{"EFTA", it.EftaID},
	}
	if it.Redacted != nil {
		fields = append(fields, [2]string{"Redacted", fmt.Sprint(*it.Redacted)})
	}

	t := newTable("FIELD", "VALUE")
	for _, f := range fields {
		if f[1] != "" {
			t.Row(f[0], truncate(f[1], 100))
		}
	}
	fmt.Fprintln(w, t.Render())

	if it.Body != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, truncate(it.Body, 2000))
	}
}
