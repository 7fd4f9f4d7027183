package commands

import (
	"WebCarros/internal/cli/bootstrap"
	"WebCarros/internal/cli/service"
	"WebCarros/internal/cli/validate"
	"context"
	"errors"
)

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account (role: Administrador|Revendedor)" }
func (registerCmd) Usage() string       { return "register <name> <email> <password> <role>" }

func (registerCmd) Run(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) < 4 {
		return ErrUsage
	}
	_, err := app.Auth.Register(ctx, service.RegisterInput{
		Name:     args[0],
		Email:    args[1],
		Password: args[2],
		Role:     args[3],
	})
	if errors.Is(err, service.ErrAuth) {
		return errReported
	}
	if err != nil {
		return reportValidation(validate.RegisterSchema, err)
	}
	return nil
}

func init() { registerIn(sectionAccount, registerCmd{}) }
