package main

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanoref/nanoref"
	"github.com/arthur-debert/nanoref/search"
	"github.com/arthur-debert/nanoref/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the references interactively",
	Long: `Opens the picker: type to search the store, enter adds the selected
result, ctrl+a adds everything shown, ctrl+s sorts by a document field,
ctrl+x clears after confirmation. Changes commit to the reference file
as they happen. Edits to the store from other processes are picked up
while the picker is open.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The editor needs the notify handler before the widget
		// exists; the indirection closes the loop
		var widget *tui.Model
		sess, err := openSession(func(u search.Update) {
			if widget != nil {
				widget.Notify(u)
			}
		})
		if err != nil {
			return err
		}
		defer sess.close()

		widget = tui.New(sess.editor, sess.store)
		program := tea.NewProgram(widget)

		// Re-read the field when another process changes the store, so
		// the picker never shows references to documents it cannot see
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		events, err := sess.store.Watch(ctx)
		if err != nil {
			slog.Warn("store watching unavailable", "error", err)
		} else {
			go func() {
				for range events {
					refs, err := nanoref.LoadFieldFile(sess.refs)
					if err != nil {
						slog.Warn("failed to reload field file", "error", err)
						continue
					}
					program.Send(tui.RehydrateMsg{Refs: refs})
				}
			}()
		}

		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run picker: %w", err)
		}
		return nil
	},
}
