package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every reference from the field",
	Long: `Clearing is destructive and requires --yes, mirroring the two-step
confirmation the interactive picker asks for.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("clearing removes all references; pass --yes to confirm")
		}

		sess, err := openSession(nil)
		if err != nil {
			return err
		}
		defer sess.close()

		count := sess.editor.Len()
		sess.editor.ArmRemoval()
		if err := sess.editor.RemoveAll(context.Background()); err != nil {
			return err
		}

		fmt.Printf("Removed %d references\n", count)
		return nil
	},
}

func init() {
	clearCmd.Flags().Bool("yes", false, "confirm the removal")
}
