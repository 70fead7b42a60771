package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanoref/types"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current references with their documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(nil)
		if err != nil {
			return err
		}
		defer sess.close()

		refs := sess.editor.Refs()
		ids := make([]string, len(refs))
		for i, ref := range refs {
			ids[i] = ref.ID
		}

		docs := make(map[string]types.Document, len(ids))
		if len(ids) > 0 {
			expanded, err := sess.store.Expand(context.Background(), ids)
			if err != nil {
				return fmt.Errorf("failed to resolve references: %w", err)
			}
			for _, doc := range expanded {
				docs[doc.ID] = doc
			}
		}

		lines := make([]refLine, len(refs))
		for i, ref := range refs {
			line := refLine{Position: i + 1, ID: ref.ID, Key: ref.Key}
			if doc, ok := docs[ref.ID]; ok {
				line.Title = doc.Title
				line.Kind = doc.Kind
				line.Fields = doc.Fields
			} else {
				line.Dangling = true
			}
			lines[i] = line
		}

		return renderLines(lines, viperInst.GetString("format"))
	},
}

func init() {
	showCmd.Flags().String("format", "table", "output format (table, json, yaml)")
}
