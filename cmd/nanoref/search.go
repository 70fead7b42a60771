package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanoref/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search the store the way the picker does",
	Long: `Runs one query with the field's search configuration: a prefix match
over the configured fields, restricted to the kinds the field accepts,
bounded by the result limit. Documents already referenced are marked,
or hidden when the field hides them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(nil)
		if err != nil {
			return err
		}
		defer sess.close()

		text := strings.Join(args, " ")
		executor := search.NewExecutor(sess.store, sess.schema, sess.opts)
		results, err := executor.Search(context.Background(), text)
		if err != nil {
			return err
		}

		table := uitable.New()
		table.MaxColWidth = 60
		table.AddRow("TITLE", "ID", "")
		shown := 0
		added := color.New(color.Faint, color.Italic)
		for _, result := range results {
			if sess.editor.Contains(result.ID) {
				if sess.opts.HideAdded {
					continue
				}
				table.AddRow(result.Title, result.ID, added.Sprint("(added)"))
				shown++
				continue
			}
			table.AddRow(result.Title, result.ID, "")
			shown++
		}

		if shown == 0 {
			fmt.Println("no matches")
			return nil
		}
		fmt.Println(table)
		return nil
	},
}
