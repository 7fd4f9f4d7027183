package commands

import (
	"WebCarros/internal/cli/bootstrap"
	"WebCarros/internal/cli/model"
	"WebCarros/internal/cli/service"
	"WebCarros/internal/cli/validate"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
)

// ---- listing-new ----

type listingNewCmd struct{}

func (listingNewCmd) Name() string        { return "listing-new" }
func (listingNewCmd) Description() string { return "Fill the draft form and publish the listing" }
func (listingNewCmd) Usage() string {
	return "listing-new [-name] [-model] [-year] [-km] [-price] [-city] [-whatsapp] [-description]"
}

func (listingNewCmd) Run(ctx context.Context, app *bootstrap.App, args []string) error {
	draft, cleanup, err := app.OpenDraft(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	// поля, не переданные флагами, берутся из сохранённого черновика
	form, err := draft.Fields()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("listing-new", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&form.Name, "name", form.Name, "car name")
	fs.StringVar(&form.Model, "model", form.Model, "car model")
	fs.StringVar(&form.Year, "year", form.Year, "year")
	fs.StringVar(&form.Km, "km", form.Km, "mileage")
	fs.StringVar(&form.Price, "price", form.Price, "price")
	fs.StringVar(&form.City, "city", form.City, "city")
	fs.StringVar(&form.Whatsapp, "whatsapp", form.Whatsapp, "phone, 11-12 digits")
	fs.StringVar(&form.Description, "description", form.Description, "description")
	if err := fs.Parse(args); err != nil || fs.NArg() > 0 {
		return ErrUsage
	}

	if verr := validate.ListingSchema.Validate(form.Values()); verr != nil {
		if err := draft.SaveFields(form); err != nil {
			app.Logger.Warnw("failed to save draft fields", "error", err)
		}
		return reportValidation(validate.ListingSchema, verr)
	}

	id, err := draft.Submit(ctx, form)
	if errors.Is(err, service.ErrDraftNotCleared) {
		// объявление уже создано: id показываем, поля не сохраняем
		fmt.Fprintf(Out, "Listing id: %s\n", id)
		return errReported
	}
	if err != nil {
		if err := draft.SaveFields(form); err != nil {
			app.Logger.Warnw("failed to save draft fields", "error", err)
		}
		if errors.Is(err, service.ErrNoImages) {
			return errReported
		}
		return err
	}
	fmt.Fprintf(Out, "Listing id: %s\n", id)
	return nil
}

// ---- listing-get ----

type listingGetCmd struct{}

func (listingGetCmd) Name() string        { return "listing-get" }
func (listingGetCmd) Description() string { return "Show a published listing as JSON" }
func (listingGetCmd) Usage() string       { return "listing-get <id>" }

func (listingGetCmd) Run(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	var l model.Listing
	if err := app.Backend.DocGet(ctx, service.CarsCollection, args[0], &l); err != nil {
		return fmt.Errorf("get listing %s: %w", args[0], err)
	}
	b, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, string(b))
	return nil
}

func init() { registerIn(sectionListings, listingNewCmd{}, listingGetCmd{}) }
