package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"obralog/internal/backend"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage sign-in accounts",
	}
	cmd.AddCommand(newUsersAddCmd(app))
	return cmd
}

func newUsersAddCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Add (or replace) an account that can sign in to the TUI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
				return err
			}

			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil {
					return err
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			auth := backend.NewLocalAuth(cfg.Dir, nil)
			if err := auth.AddUser(args[0], password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s added\n", strings.ToLower(strings.TrimSpace(args[0])))
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (omit to read from stdin)")
	return cmd
}
