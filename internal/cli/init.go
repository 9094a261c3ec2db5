package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"obralog/internal/backend"
	"obralog/internal/logging"
)

func newInitCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the workspace dir, the documents database and optionally the first account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
				return err
			}

			log, err := logging.New(cfg.Log.File, cfg.Log.Level)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			// Opening the store creates the schema.
			store, err := backend.OpenSQLiteStore(cfg.Dir, nil, log)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if email != "" {
				if password == "" {
					return fmt.Errorf("--password is required with --email")
				}
				auth := backend.NewLocalAuth(cfg.Dir, log)
				if err := auth.AddUser(email, password); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "workspace ready at %s\n", cfg.Dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Create a first sign-in account")
	cmd.Flags().StringVar(&password, "password", "", "Password for --email")
	return cmd
}
