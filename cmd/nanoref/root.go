// Command nanoref demonstrates the reference editing core against the
// bundled JSON document store: an interactive picker plus scriptable
// subcommands for the same operations.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var viperInst = viper.New()

var rootCmd = &cobra.Command{
	Use:   "nanoref",
	Short: "Edit reference collection fields on documents",
	Long: `nanoref edits an ordered list of references from one document field
to other documents in a store: search-as-you-type adding, duplicate-free
bulk adds, a confirmed clear, and sorting by any field of the referenced
documents.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (NANOREF_*)
3. Configuration file (./nanoref.yaml or ~/.config/nanoref/nanoref.yaml)

The field being edited is declared in a schema file:

  field:
    name: related
    kinds: [product]
  options:
    search_fields: [title]
    limit: 50
    debounce_ms: 300

References persist in a sidecar file next to the store, standing in for
the host document's field value.

Examples:
  nanoref --store catalog.json seed
  nanoref --store catalog.json --schema related.yaml edit
  nanoref --store catalog.json --schema related.yaml sort price`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viperInst.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("failed to bind flags: %w", err)
		}
		if err := initLogging(viperInst.GetString("log-level"), viperInst.GetBool("verbose")); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		slog.Debug("command starting",
			"command", cmd.Name(),
			"store", viperInst.GetString("store"),
			"schema", viperInst.GetString("schema"))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("store", "nanoref-store.json", "path to the document store file")
	rootCmd.PersistentFlags().String("schema", "", "path to the field schema YAML file")
	rootCmd.PersistentFlags().String("refs", "", "path to the reference field file (default: <field>.refs.json next to the store)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "also log to stdout")

	if configFile := os.Getenv("NANOREF_CONFIG"); configFile != "" {
		viperInst.SetConfigFile(configFile)
	} else {
		viperInst.SetConfigName("nanoref")
		viperInst.SetConfigType("yaml")
		viperInst.AddConfigPath(".")
		viperInst.AddConfigPath("$HOME/.config/nanoref")
	}
	viperInst.AutomaticEnv()
	viperInst.SetEnvPrefix("NANOREF")
	viperInst.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	_ = viperInst.ReadInConfig()

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(editCmd)
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}
