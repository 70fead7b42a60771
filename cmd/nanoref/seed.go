package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanoref/docstore"
)

// sampleDocs is the demo catalog the other subcommands play against
var sampleDocs = []docstore.Doc{
	{Kind: "product", Title: "Widget Alpha", Fields: map[string]interface{}{"price": 30, "stock": 12}},
	{Kind: "product", Title: "Widget Beta", Fields: map[string]interface{}{"price": 10, "stock": 3}},
	{Kind: "product", Title: "Widget Gamma", Fields: map[string]interface{}{"stock": 7}},
	{Kind: "product", Title: "Gadget Delta", Fields: map[string]interface{}{"price": 25, "stock": 1}},
	{Kind: "product", Title: "Gadget Epsilon", Fields: map[string]interface{}{"price": 75, "stock": 9}},
	{Kind: "person", Title: "Wilma", Fields: map[string]interface{}{"team": "sales"}},
	{Kind: "person", Title: "Amara", Fields: map[string]interface{}{"team": "support"}},
	{Kind: "tag", Title: "featured", Fields: map[string]interface{}{}},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with a demo catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		for _, doc := range sampleDocs {
			id, err := store.Put(doc)
			if err != nil {
				return fmt.Errorf("failed to seed %q: %w", doc.Title, err)
			}
			slog.Debug("seeded document", "id", id, "title", doc.Title)
		}

		fmt.Printf("Seeded %d documents into %s (%d total)\n",
			len(sampleDocs), viperInst.GetString("store"), store.Len())
		return nil
	},
}
