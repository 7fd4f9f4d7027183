package commands

import (
	"WebCarros/internal/cli/bootstrap"
	"context"
	"fmt"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show the current session" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	sess, err := app.WaitSession(ctx)
	if err != nil {
		fmt.Fprintln(Out, "Status: loading")
		return fmt.Errorf("session: %w", err)
	}
	if sess.Identity == nil {
		fmt.Fprintln(Out, "Status: anonymous")
		return nil
	}
	id := sess.Identity
	fmt.Fprintln(Out, "Status: signed in")
	fmt.Fprintf(Out, "  uid:   %s\n", id.UID)
	if id.Name != nil {
		fmt.Fprintf(Out, "  name:  %s\n", *id.Name)
	}
	if id.Email != nil {
		fmt.Fprintf(Out, "  email: %s\n", *id.Email)
	}
	role := app.Auth.StoredRole(id.UID)
	if id.Role != nil {
		role = *id.Role
	}
	if role != "" {
		fmt.Fprintf(Out, "  role:  %s\n", role)
	}
	return nil
}

func init() { registerIn(sectionAccount, statusCmd{}) }
