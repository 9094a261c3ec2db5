// Package cli wires the scriptable commands and the interactive TUI.
package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"obralog/internal/backend"
	"obralog/internal/config"
	"obralog/internal/logging"
	"obralog/internal/sync"
	"obralog/internal/tui"
)

type App struct {
	Dir        string
	ConfigPath string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "obralog",
		Short:        "Acompanhamento de obras (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  obralog

  # Prepare a workspace and add a sign-in
  obralog init
  obralog users add eng@example.com

  # Scriptable commands
  obralog projects list
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Workspace dir (overrides config and OBRALOG_DIR)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Config file path (default: OBRALOG_CONFIG or none)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newProjectsCmd(app))

	return cmd
}

func (app *App) loadConfig() (config.Config, error) {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if app.Dir != "" {
		cfg.Dir = app.Dir
		// Keep the default log next to the overridden workspace unless the
		// log file was pinned explicitly.
		if os.Getenv("OBRALOG_LOG") == "" {
			cfg.Log.File = filepath.Join(cfg.Dir, "obralog.log")
		}
	}
	return cfg, nil
}

func runTUI(app *App) error {
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

	auth := backend.NewLocalAuth(cfg.Dir, log)
	store, err := backend.OpenSQLiteStore(cfg.Dir, auth, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctrl := sync.NewController(store, log)
	unbind := ctrl.Bind(auth)
	defer unbind()

	return tui.Run(tui.Deps{
		Auth:  auth,
		Store: store,
		Blob:  backend.FileBlobStore{Dir: cfg.Dir},
		Ctrl:  ctrl,
		Log:   log,
	})
}
