package commands

import (
	"WebCarros/internal/cli/bootstrap"
	"WebCarros/internal/cli/service"
	"context"
	"errors"
	"fmt"
)

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Sign out and forget the auth cookie" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if _, err := app.WaitSession(ctx); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := app.Auth.Logout(ctx); err != nil {
		if errors.Is(err, service.ErrAuth) {
			return errReported
		}
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

func init() { registerIn(sectionAccount, logoutCmd{}) }
