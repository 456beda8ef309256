package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmartinsanz/gin-userbase-api/internal/client"
)

func (a *app) registerCmd() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and start a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword(cmd.OutOrStdout(), "Enter password: ")
			if err != nil {
				return err
			}

			api := client.New(a.serverURL, "")
			resp, err := api.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			if err := a.saveSession(resp); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s (id %d)\n", resp.User.Email, resp.User.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword(cmd.OutOrStdout(), "Enter password: ")
			if err != nil {
				return err
			}

			api := client.New(a.serverURL, "")
			resp, err := api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := a.saveSession(resp); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (id %d)\n", resp.User.Email, resp.User.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.store.Load()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (id %d, role %s)\n",
				session.User.Name, session.User.Email, session.User.ID, session.User.Role)
			return nil
		},
	}
}
