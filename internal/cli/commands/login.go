package commands

import (
	"WebCarros/internal/cli/bootstrap"
	"WebCarros/internal/cli/service"
	"WebCarros/internal/cli/validate"
	"context"
	"errors"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store auth cookie" }
func (loginCmd) Usage() string       { return "login <email> <password>" }

func (loginCmd) Run(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	_, err := app.Auth.Login(ctx, args[0], args[1])
	if errors.Is(err, service.ErrAuth) {
		// уведомление уже показано
		return errReported
	}
	if err != nil {
		return reportValidation(validate.LoginSchema, err)
	}
	return nil
}

func init() { registerIn(sectionAccount, loginCmd{}) }
