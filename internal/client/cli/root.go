// Package cli implements the command-line client: a thin page-less analogue
// of the dashboard UI. It keeps the bearer token in a local session file and
// attaches it to every user-management call.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmartinsanz/gin-userbase-api/internal/client"
)

type app struct {
	store     *client.SessionStore
	serverURL string
}

// NewRootCmd builds the root command with all subcommands attached.
// sessionPath may be empty, in which case the default location is used.
func NewRootCmd(sessionPath string) (*cobra.Command, error) {
	if sessionPath == "" {
		var err error
		sessionPath, err = client.DefaultSessionPath()
		if err != nil {
			return nil, err
		}
	}

	a := &app{store: client.NewSessionStore(sessionPath)}

	root := &cobra.Command{
		Use:           "userbase",
		Short:         "Client for the userbase credential-management API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.serverURL, "server", "http://localhost:8080", "base URL of the userbase server")

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.usersCmd(),
	)
	return root, nil
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	root, err := NewRootCmd("")
	if err == nil {
		err = root.Execute()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// api returns an authenticated client built from the stored session.
func (a *app) api() (*client.Client, *client.Session, error) {
	session, err := a.store.Load()
	if err != nil {
		return nil, nil, err
	}
	serverURL := session.ServerURL
	if serverURL == "" {
		serverURL = a.serverURL
	}
	return client.New(serverURL, session.Token), session, nil
}

// saveSession persists a fresh token response as the current session.
func (a *app) saveSession(resp *client.TokenResponse) error {
	return a.store.Save(&client.Session{
		ServerURL: a.serverURL,
		Token:     resp.AccessToken,
		User:      resp.User,
	})
}

// checkAuth handles expired or revoked sessions: the local state is dropped
// so the next command starts from the login step, mirroring the browser
// client's redirect-to-login on 401.
func (a *app) checkAuth(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		if clearErr := a.store.Clear(); clearErr != nil {
			return fmt.Errorf("%w (failed to clear session: %v)", err, clearErr)
		}
	}
	return err
}
