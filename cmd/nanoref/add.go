package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <id>...",
	Short: "Add references to documents by id",
	Long: `Appends a reference per id, in the order given. Ids already
referenced are skipped silently; ids that do not resolve in the store
are rejected before anything is committed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(nil)
		if err != nil {
			return err
		}
		defer sess.close()

		// Reject unknown ids up front so a typo cannot create a
		// dangling reference
		for _, id := range args {
			if _, err := sess.store.Get(id); err != nil {
				return fmt.Errorf("cannot add %s: %w", id, err)
			}
		}

		before := sess.editor.Len()
		for _, id := range args {
			if err := sess.editor.AddOne(context.Background(), id); err != nil {
				return err
			}
		}

		addedCount := sess.editor.Len() - before
		fmt.Printf("Added %d of %d (now %d references)\n", addedCount, len(args), sess.editor.Len())
		return nil
	},
}
