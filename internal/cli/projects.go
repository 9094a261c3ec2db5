package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"obralog/internal/backend"
	"obralog/internal/format"
	"obralog/internal/logging"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Inspect the works collection",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	return cmd
}

// projectSummary is the scripting-friendly shape of `projects list`.
type projectSummary struct {
	ID        string `json:"id"`
	Client    string `json:"client"`
	Address   string `json:"address"`
	Status    string `json:"status"`
	StartDate string `json:"startDate"`
	Progress  int    `json:"progress"`
	Updates   int    `json:"updates"`
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects as JSON, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}

			log, err := logging.New(cfg.Log.File, cfg.Log.Level)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			// Local CLI reads skip the sign-in gate; the gate protects the
			// live subscription, not the owner's own database file.
			store, err := backend.OpenSQLiteStore(cfg.Dir, nil, log)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			projects, err := store.List()
			if err != nil {
				return err
			}

			out := make([]projectSummary, 0, len(projects))
			for i := range projects {
				p := &projects[i]
				out = append(out, projectSummary{
					ID:        string(p.ID),
					Client:    p.Client,
					Address:   p.Address,
					Status:    string(p.Status),
					StartDate: format.Date(p.StartDate),
					Progress:  p.Progress,
					Updates:   len(p.Updates),
				})
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if app.PrettyJSON {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}
}
