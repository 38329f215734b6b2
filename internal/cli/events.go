package cli

import (
	"github.com/spf13/cobra"

	"shelf-cli/internal/store"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int
	var entity string
	var from string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the workspace audit log",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List events (oldest-first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := store.EventFilter{EntityID: entity, Limit: limit}
			if from != "" {
				evs, err := store.ReadEventsJSONL(from)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data": store.FilterEvents(evs, filter),
					"meta": map[string]any{"source": from},
				})
			}
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s := store.Store{Dir: dir}
			evs, err := s.ReadEvents(cmd.Context(), filter)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 200, "Max events to return (0 = all)")
	listCmd.Flags().StringVar(&entity, "entity", "", "Only events for this entity id")
	listCmd.Flags().StringVar(&from, "from", "", "Read a JSONL export instead of the workspace")

	var to string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write events to a JSONL file (oldest-first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s := store.Store{Dir: dir}
			n, err := s.ExportEventsJSONL(cmd.Context(), to, store.EventFilter{EntityID: entity})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"path": to, "events": n},
			})
		},
	}
	exportCmd.Flags().StringVar(&to, "to", "", "Destination .jsonl file (must not exist)")
	exportCmd.Flags().StringVar(&entity, "entity", "", "Only events for this entity id")
	_ = exportCmd.MarkFlagRequired("to")

	cmd.AddCommand(listCmd, exportCmd)
	return cmd
}
