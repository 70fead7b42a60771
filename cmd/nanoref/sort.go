package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var sortCmd = &cobra.Command{
	Use:   "sort [field]",
	Short: "Sort the references by a field of the referenced documents",
	Long: `Reorders the references by the given document field and commits the
new order. Running the same sort again reverses it: already ascending
becomes descending, anything else becomes ascending. Documents missing
the field keep to the tail either way.

Without a field argument, the sortable field catalog is listed instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(nil)
		if err != nil {
			return err
		}
		defer sess.close()

		ctx := context.Background()

		if len(args) == 0 {
			catalog, err := sess.editor.SortCatalog(ctx)
			if err != nil {
				return err
			}
			if len(catalog) == 0 {
				fmt.Println("nothing to sort")
				return nil
			}
			fmt.Println("Sortable fields:")
			for _, field := range catalog {
				fmt.Printf("  %s\n", field)
			}
			return nil
		}

		field := args[0]
		if err := sess.editor.ApplySort(ctx, field); err != nil {
			return err
		}

		direction := "ascending"
		if state, ok := sess.editor.SortState(); ok && !state.Ascending {
			direction = "descending"
		}
		fmt.Printf("Sorted %d references by %s (%s)\n", sess.editor.Len(), field, direction)
		for i, id := range sess.editor.IDs() {
			fmt.Printf("  %d. %s\n", i+1, id)
		}
		return nil
	},
}
