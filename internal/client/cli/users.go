package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rmartinsanz/gin-userbase-api/internal/client"
)

func (a *app) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts (requires login)",
	}
	cmd.AddCommand(
		a.usersListCmd(),
		a.usersGetCmd(),
		a.usersCreateCmd(),
		a.usersUpdateCmd(),
		a.usersDeleteCmd(),
	)
	return cmd
}

func (a *app) usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := a.api()
			if err != nil {
				return err
			}

			users, err := api.ListUsers(cmd.Context())
			if err != nil {
				return a.checkAuth(err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tCREATED")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					u.ID, u.Name, u.Email, u.Role, u.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func (a *app) usersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			api, _, err := a.api()
			if err != nil {
				return err
			}

			user, err := api.GetUser(cmd.Context(), id)
			if err != nil {
				return a.checkAuth(err)
			}
			printUser(cmd, user)
			return nil
		},
	}
}

func (a *app) usersCreateCmd() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword(cmd.OutOrStdout(), "Enter password for the new user: ")
			if err != nil {
				return err
			}

			api, _, err := a.api()
			if err != nil {
				return err
			}

			user, err := api.CreateUser(cmd.Context(), client.UserRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return a.checkAuth(err)
			}
			printUser(cmd, user)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) usersUpdateCmd() *cobra.Command {
	var name, email string
	var withPassword bool
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user's name, email or password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			req := client.UserRequest{Name: name, Email: email}
			if withPassword {
				password, err := promptPassword(cmd.OutOrStdout(), "Enter new password: ")
				if err != nil {
					return err
				}
				req.Password = password
			}

			api, _, err := a.api()
			if err != nil {
				return err
			}

			user, err := api.UpdateUser(cmd.Context(), id, req)
			if err != nil {
				return a.checkAuth(err)
			}
			printUser(cmd, user)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().BoolVar(&withPassword, "password", false, "prompt for a new password")
	return cmd
}

func (a *app) usersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			api, _, err := a.api()
			if err != nil {
				return err
			}

			user, err := api.DeleteUser(cmd.Context(), id)
			if err != nil {
				return a.checkAuth(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s (id %d)\n", user.Email, user.ID)
			return nil
		},
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid user id: %s", raw)
	}
	return uint(id), nil
}

func printUser(cmd *cobra.Command, u *client.User) {
	fmt.Fprintf(cmd.OutOrStdout(), "id:      %d\nname:    %s\nemail:   %s\nrole:    %s\ncreated: %s\nupdated: %s\n",
		u.ID, u.Name, u.Email, u.Role,
		u.CreatedAt.Format("2006-01-02 15:04:05"), u.UpdatedAt.Format("2006-01-02 15:04:05"))
}
