package commands

import (
	"WebCarros/internal/cli/bootstrap"
	"WebCarros/internal/cli/model"
	"WebCarros/internal/cli/service"
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ---- image-add ----

type imageAddCmd struct{}

func (imageAddCmd) Name() string        { return "image-add" }
func (imageAddCmd) Description() string { return "Upload images (jpeg/png) to the listing draft" }
func (imageAddCmd) Usage() string       { return "image-add <file>..." }

func (imageAddCmd) Run(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	files := make([]service.ImageFile, 0, len(args))
	for _, p := range args {
		f, err := readImageFile(p)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	draft, cleanup, err := app.OpenDraft(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	imgs, errs := draft.UploadAll(ctx, files)
	failed := 0
	for i := range files {
		if errs[i] != nil {
			failed++
			continue
		}
		fmt.Fprintf(Out, "%s -> %s\n", files[i].Path, imgs[i].LocalID)
	}
	if failed > 0 {
		// сообщения уже показаны уведомлениями
		return errReported
	}
	return nil
}

// readImageFile читает файл и определяет тип: по расширению, иначе по содержимому.
func readImageFile(path string) (service.ImageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return service.ImageFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return service.ImageFile{Path: path, ContentType: ct, Data: data}, nil
}

// ---- image-rm ----

type imageRmCmd struct{}

func (imageRmCmd) Name() string        { return "image-rm" }
func (imageRmCmd) Description() string { return "Delete an uploaded image from the draft" }
func (imageRmCmd) Usage() string       { return "image-rm <localId>" }

func (imageRmCmd) Run(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	draft, cleanup, err := app.OpenDraft(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	imgs, err := draft.Images()
	if err != nil {
		return err
	}
	target, found := findImage(imgs, args[0])
	if !found {
		// изображения нет в черновике: удаляем объект по вычисленному пути
		uid := app.Session.Current().Identity.UID
		target = model.ImageDescriptor{
			OwnerUID:    uid,
			LocalID:     args[0],
			StoragePath: model.StoragePathFor(uid, args[0]),
		}
	}
	if err := draft.Delete(ctx, target); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Deleted %s\n", args[0])
	return nil
}

func findImage(imgs []model.ImageDescriptor, localID string) (model.ImageDescriptor, bool) {
	for _, img := range imgs {
		if img.LocalID == localID {
			return img, true
		}
	}
	return model.ImageDescriptor{}, false
}

// ---- images ----

type imagesCmd struct{}

func (imagesCmd) Name() string        { return "images" }
func (imagesCmd) Description() string { return "List images of the listing draft" }
func (imagesCmd) Usage() string       { return "images" }

func (imagesCmd) Run(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	draft, cleanup, err := app.OpenDraft(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	imgs, err := draft.Images()
	if err != nil {
		return err
	}
	if len(imgs) == 0 {
		fmt.Fprintln(Out, "No images")
		return nil
	}
	for _, img := range imgs {
		fmt.Fprintf(Out, "%s\t%s\t%s\n", img.LocalID, img.Preview, img.RemoteURL)
	}
	return nil
}

func init() { registerIn(sectionDraft, imageAddCmd{}, imageRmCmd{}, imagesCmd{}) }
