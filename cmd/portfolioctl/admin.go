package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shagor/portfolio-core/internal/modules/auth"
	"github.com/spf13/cobra"
)

const passwordEnv = "PORTFOLIO_ADMIN_PASSWORD"

func newCreateAdminCmd(e *env) *cobra.Command {
	var (
		email    string
		password string
		reset    bool
	)
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account, or reset its password with --reset",
		Example: `  portfolioctl create-admin --email owner@example.com --password 's3cret!'
  PORTFOLIO_ADMIN_PASSWORD='s3cret!' portfolioctl create-admin --email owner@example.com --reset`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			if strings.TrimSpace(email) == "" || password == "" {
				return fmt.Errorf("--email and --password (or %s) are required", passwordEnv)
			}

			db, closeDB, err := e.openDB()
			if err != nil {
				return err
			}
			defer closeDB()
			svc := auth.NewService(db, e.log)

			admin, err := svc.Register(&auth.RegisterDTO{Email: email, Password: password})
			switch {
			case err == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (id %s)\n", admin.Email, admin.ID)
				return nil
			case errors.Is(err, auth.ErrAdminExists) && reset:
				if err := svc.SetPassword(email, password); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "password reset for %s\n", strings.ToLower(strings.TrimSpace(email)))
				return nil
			case errors.Is(err, auth.ErrAdminExists):
				return fmt.Errorf("%w; pass --reset to change its password", err)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password, at least 6 characters (default $"+passwordEnv+")")
	cmd.Flags().BoolVar(&reset, "reset", false, "reset the password when the account already exists")
	return cmd
}
